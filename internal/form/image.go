// Package form models the admin create/edit forms and turns them into API payloads.
package form

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"perfumeadmin/internal/errs"
	"perfumeadmin/internal/storage"
)

type ImageState int

const (
	// StateLocal is an image picked on this machine, held as a data URI until the server uploads it.
	StateLocal ImageState = iota
	// StateRemote is an image already in the asset store.
	StateRemote
)

func (s ImageState) String() string {
	if s == StateRemote {
		return "remote"
	}
	return "local"
}

type ImageRef struct {
	Source string
	State  ImageState
}

// EncodeImage builds a data URI from raw image bytes.
func EncodeImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errs.Validation("Image is empty")
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", errs.Validation(fmt.Sprintf("Unsupported image type %s", mtype.String()))
	}

	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func readImageFile(path string) (ImageRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImageRef{}, fmt.Errorf("failed to read image: %w", err)
	}
	uri, err := EncodeImage(data)
	if err != nil {
		return ImageRef{}, err
	}
	return ImageRef{Source: uri, State: StateLocal}, nil
}

// refFromSource classifies an image given as a URL or a data URI.
func refFromSource(src string) (ImageRef, error) {
	src = strings.TrimSpace(src)
	switch {
	case storage.IsInlinePayload(src):
		if _, err := storage.ParseDataURI(src); err != nil {
			return ImageRef{}, errs.Validation("Invalid image payload")
		}
		return ImageRef{Source: src, State: StateLocal}, nil
	case storage.IsRemoteURL(src):
		return ImageRef{Source: src, State: StateRemote}, nil
	}
	return ImageRef{}, errs.Validation("Images must be URLs or inline data URIs")
}
