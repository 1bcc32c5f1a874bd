// Package storage stores uploaded files and hands back their public URL.
package storage

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
)

var ErrNotImage = errors.New("storage: file is not a supported image")

type PutInput struct {
	Folder      string // e.g. "avatars"
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// SniffImage peeks at the start of r and reports its image content type. The
// returned reader still yields the whole stream.
func SniffImage(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", nil, err
	}
	ct := http.DetectContentType(head)
	if _, ok := imageExt[ct]; !ok {
		return "", nil, ErrNotImage
	}
	return ct, br, nil
}

func extFor(contentType string) string { return imageExt[contentType] }
