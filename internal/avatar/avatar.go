// Package avatar validates and encodes profile pictures before they are
// sent with a profile update
package avatar

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/getmentor/mentor-match-client/pkg/errors"
)

// MaxSize is the largest accepted avatar, in bytes
const MaxSize = 1 << 20

// AllowedTypes are the accepted avatar MIME types
var AllowedTypes = []string{"image/jpeg", "image/png"}

var (
	ErrEmpty           = &apperrors.FieldError{Field: "image", Reason: "Image file is empty"}
	ErrTooLarge        = &apperrors.FieldError{Field: "image", Reason: "Image must be 1 MB or smaller"}
	ErrUnsupportedType = &apperrors.FieldError{Field: "image", Reason: "Only JPG and PNG images are allowed"}
)

// Source yields raw avatar bytes and the MIME type the origin declares for
// them, which may be empty
type Source interface {
	Read(ctx context.Context) (data []byte, declaredMIME string, err error)
}

// Validate checks size and type. The type is sniffed from the content; a
// declared type, when present, must be allowed as well. It returns the
// detected MIME type.
func Validate(data []byte, declaredMIME string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}

	if declaredMIME != "" && !allowed(declaredMIME) {
		return "", ErrUnsupportedType
	}

	detected := mimetype.Detect(data)
	for _, mt := range AllowedTypes {
		if detected.Is(mt) {
			return mt, nil
		}
	}
	return "", ErrUnsupportedType
}

// Encode renders the image as standard base64 without a data URI prefix
func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Prepare reads, validates and encodes an avatar. No network call to the
// backend happens before it succeeds.
func Prepare(ctx context.Context, src Source) (string, error) {
	data, declared, err := src.Read(ctx)
	if err != nil {
		return "", err
	}
	if _, err := Validate(data, declared); err != nil {
		return "", err
	}
	return Encode(data), nil
}

func allowed(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	if base == "image/jpg" || base == "image/pjpeg" {
		base = "image/jpeg"
	}
	for _, mt := range AllowedTypes {
		if base == mt {
			return true
		}
	}
	return false
}

func sizeCheck(size int64) error {
	if size > MaxSize {
		return ErrTooLarge
	}
	return nil
}

func readError(what string, err error) error {
	return fmt.Errorf("failed to read avatar from %s: %w", what, err)
}
