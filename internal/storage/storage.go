package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// AssetStore uploads inline images and destroys them by public id.
type AssetStore interface {
	// Upload stores an inline payload (data: URI) under folder and returns its public URL.
	Upload(ctx context.Context, payload string, folder string) (string, error)
	// Destroy removes the asset identified by publicID ("<folder>/<name>").
	Destroy(ctx context.Context, publicID string) error
}

var (
	ErrInvalidPayload = errors.New("invalid inline image payload")

	// ErrAssetNotFound is returned by Destroy when no object matches the public id.
	ErrAssetNotFound = errors.New("asset not found")
)

// IsInlinePayload reports whether s is an image encoded in the request body.
func IsInlinePayload(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// IsRemoteURL reports whether s is an absolute http(s) URL.
func IsRemoteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Payload is a decoded inline image.
type Payload struct {
	Data        []byte
	ContentType string
	Extension   string
}

// ParseDataURI decodes "data:<mime>;base64,<data>". The content type is sniffed from the bytes,
// the declared one is only used when sniffing finds nothing specific.
func ParseDataURI(s string) (*Payload, error) {
	if !IsInlinePayload(s) {
		return nil, ErrInvalidPayload
	}

	header, encoded, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return nil, ErrInvalidPayload
	}

	params := strings.Split(header, ";")
	declared := params[0]
	isBase64 := false
	for _, p := range params[1:] {
		if p == "base64" {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			// browsers occasionally drop the padding
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		data = decoded
	} else {
		unescaped, err := url.PathUnescape(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		data = []byte(unescaped)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", ErrInvalidPayload)
	}

	payload := &Payload{Data: data}
	detected := mimetype.Detect(data)
	if detected.Is("application/octet-stream") || detected.Is("text/plain") {
		payload.ContentType = declared
		if ext := mimetype.Lookup(declared); ext != nil {
			payload.Extension = ext.Extension()
		}
	} else {
		payload.ContentType = detected.String()
		payload.Extension = detected.Extension()
	}

	if payload.ContentType == "" {
		payload.ContentType = "application/octet-stream"
	}
	if payload.Extension == "" {
		payload.Extension = ".bin"
	}

	return payload, nil
}

// PublicIDFromURL derives the asset id from an asset URL: the last path segment up to its
// first dot, prefixed with folder.
func PublicIDFromURL(rawURL, folder string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}

	name := path.Base(p)
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}

	return folder + "/" + name
}
