// Package email renders and sends the store's transactional mail.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"glamup.com/app/internal/mailer"
	"glamup.com/app/internal/modules/orders"
	"glamup.com/app/internal/shared/money"
)

const storeName = "GlamUp"

var orderHTML = template.Must(template.New("order").Parse(`<html>
  <body style="font-family: sans-serif;">
    <h2>Thanks for your order, {{.Name}}!</h2>
    <p><strong>Order:</strong> #{{.ID}}</p>
    <table>
      {{range .Lines}}<tr><td>{{.Name}}{{if .Size}} ({{.Size}}){{end}} x {{.Quantity}}</td><td>{{.Total}}</td></tr>
      {{end}}
    </table>
    <p><strong>Total:</strong> {{.Total}}</p>
    <p>Shipping to: {{.Address}}</p>
    <p>The {{.Store}} team</p>
  </body>
</html>
`))

var welcomeHTML = template.Must(template.New("welcome").Parse(`<html>
  <body style="font-family: sans-serif;">
    <h2>Welcome to {{.Store}}, {{.Name}}!</h2>
    <p>Your account is ready. Start exploring the new arrivals.</p>
  </body>
</html>
`))

type Service struct {
	sender mailer.Sender
}

func NewService(sender mailer.Sender) *Service {
	return &Service{sender: sender}
}

type orderLine struct {
	Name     string
	Size     string
	Quantity int
	Total    string
}

func (s *Service) SendOrderConfirmation(ctx context.Context, o orders.Order) error {
	if o.CustomerEmail == "" {
		return fmt.Errorf("email: order %s has no customer email", o.ID)
	}

	data := struct {
		Store, Name, ID, Total, Address string
		Lines                           []orderLine
	}{
		Store:   storeName,
		Name:    o.CustomerName,
		ID:      o.ID,
		Total:   money.Format(o.Total, o.Currency),
		Address: o.ShippingAddress,
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\nWe received your order #%s.\n\n", o.CustomerName, o.ID)
	for _, it := range o.Items {
		l := orderLine{Name: it.ProductName, Size: it.Size, Quantity: it.Quantity, Total: money.Format(it.LineTotal, o.Currency)}
		data.Lines = append(data.Lines, l)
		fmt.Fprintf(&text, "  %s x %d  %s\n", it.ProductName, it.Quantity, l.Total)
	}
	fmt.Fprintf(&text, "\nTotal: %s\nShipping to: %s\n\nThe %s team\n", data.Total, o.ShippingAddress, storeName)

	var html bytes.Buffer
	if err := orderHTML.Execute(&html, data); err != nil {
		return err
	}

	return s.sender.Send(ctx, mailer.Message{
		To:       []string{o.CustomerEmail},
		Subject:  fmt.Sprintf("Order confirmation #%s - %s", shortID(o.ID), storeName),
		TextBody: text.String(),
		HTMLBody: html.String(),
		Headers:  map[string]string{"X-Order-ID": o.ID},
	})
}

func (s *Service) SendWelcome(ctx context.Context, name, addr string) error {
	var html bytes.Buffer
	if err := welcomeHTML.Execute(&html, map[string]string{"Store": storeName, "Name": name}); err != nil {
		return err
	}
	return s.sender.Send(ctx, mailer.Message{
		To:       []string{addr},
		Subject:  "Welcome to " + storeName,
		TextBody: fmt.Sprintf("Hi %s,\n\nThanks for joining %s!\n", name, storeName),
		HTMLBody: html.String(),
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
