package mailer

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"sort"
	"strings"
	"time"
)

var (
	ErrNoRecipient = errors.New("mailer: at least one recipient required")
	ErrNoSender    = errors.New("mailer: from address required")
	ErrNoSubject   = errors.New("mailer: subject required")
	ErrNoBody      = errors.New("mailer: text or html body required")
)

func (m Message) validate() error {
	switch {
	case len(m.To) == 0:
		return ErrNoRecipient
	case m.From == "":
		return ErrNoSender
	case m.Subject == "":
		return ErrNoSubject
	case m.TextBody == "" && m.HTMLBody == "":
		return ErrNoBody
	}
	return nil
}

func formatAddress(name, addr string) string {
	if name == "" {
		return addr
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), addr)
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// buildMIME renders m as an RFC 5322 message. Messages carrying both bodies
// become multipart/alternative.
func buildMIME(m Message, domain string, now time.Time) (string, error) {
	if err := m.validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }

	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", randomHex(12), domain))
	header("From", formatAddress(m.FromName, m.From))
	header("To", strings.Join(m.To, ", "))
	header("Subject", mime.QEncoding.Encode("utf-8", m.Subject))
	header("MIME-Version", "1.0")

	keys := make([]string, 0, len(m.Headers))
	for k, v := range m.Headers {
		if k != "" && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		header(k, m.Headers[k])
	}

	if m.TextBody == "" || m.HTMLBody == "" {
		if m.HTMLBody != "" {
			writePart(&b, "text/html", m.HTMLBody)
		} else {
			writePart(&b, "text/plain", m.TextBody)
		}
		return b.String(), nil
	}

	boundary := "alt-" + randomHex(12)
	header("Content-Type", fmt.Sprintf("multipart/alternative; boundary=%q", boundary))
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "--%s\r\n", boundary)
	writePart(&b, "text/plain", m.TextBody)
	fmt.Fprintf(&b, "--%s\r\n", boundary)
	writePart(&b, "text/html", m.HTMLBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String(), nil
}

func writePart(b *strings.Builder, contentType, body string) {
	fmt.Fprintf(b, "Content-Type: %s; charset=UTF-8\r\n", contentType)
	b.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\r\n")
	}
}
