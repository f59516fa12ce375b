package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// Storage persists uploaded media under a relative object name
type Storage interface {
	// Save writes r under name and returns the stored name
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

var ErrInvalidName = errors.New("invalid media object name")

// cleanName rejects absolute names and names escaping the storage root
func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", ErrInvalidName
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidName
	}
	return cleaned, nil
}
