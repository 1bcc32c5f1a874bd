package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Local struct {
	BaseDir   string
	URLPrefix string
}

func NewLocal(baseDir, urlPrefix string) *Local {
	return &Local{BaseDir: baseDir, URLPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (l *Local) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	key := path.Join(cleanFolder(in.Folder), uuid.NewString()+extFor(in.ContentType))
	dst := filepath.Join(l.BaseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return PutResult{}, err
	}

	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return PutResult{}, err
	}
	if _, err := io.Copy(f, ctxReader{ctx, r}); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return PutResult{}, err
	}
	if err := f.Close(); err != nil {
		return PutResult{}, err
	}
	return PutResult{Key: key, URL: l.URLPrefix + "/" + key}, nil
}

// Delete removes key; keys that escape BaseDir are rejected.
func (l *Local) Delete(_ context.Context, key string) error {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || clean != key {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	err := os.Remove(filepath.Join(l.BaseDir, filepath.FromSlash(clean)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *Local) String() string { return fmt.Sprintf("local(%s)", l.BaseDir) }

func cleanFolder(f string) string {
	f = strings.Trim(path.Clean("/"+f), "/")
	if f == "." {
		return ""
	}
	return f
}

// ctxReader stops copying once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
