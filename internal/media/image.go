package media

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// ImageKind selects the folder an uploaded social image is stored in
type ImageKind string

const (
	ImageOG      ImageKind = "og"
	ImageTwitter ImageKind = "twitter"
)

var (
	ErrNotImage     = errors.New("file is not a supported image")
	ErrUnknownKind  = errors.New("unknown image kind")
	ErrFileTooLarge = errors.New("file exceeds the upload limit")
	imageExtensions = map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/gif":  ".gif",
		"image/webp": ".webp",
	}
)

// Dir is the storage folder for the kind
func (k ImageKind) Dir() (string, error) {
	switch k {
	case ImageOG:
		return "og_images", nil
	case ImageTwitter:
		return "twitter_images", nil
	}
	return "", ErrUnknownKind
}

// SniffImage detects the content type from the first bytes of r and returns
// a reader that still yields the whole stream.
func SniffImage(r io.Reader) (string, io.Reader, error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := http.DetectContentType(head)
	if _, ok := imageExtensions[contentType]; !ok {
		return "", nil, ErrNotImage
	}
	return contentType, br, nil
}

// ObjectName builds a fresh name such as og_images/<uuid>.png
func ObjectName(kind ImageKind, contentType string) (string, error) {
	dir, err := kind.Dir()
	if err != nil {
		return "", err
	}
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", ErrNotImage
	}
	return dir + "/" + uuid.New().String() + ext, nil
}

// limitedReader fails once more than n bytes have been read
type limitedReader struct {
	r io.Reader
	n int64
}

// LimitUpload wraps r so reading past max bytes returns ErrFileTooLarge
func LimitUpload(r io.Reader, max int64) io.Reader {
	return &limitedReader{r: r, n: max}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, ErrFileTooLarge
	}
	return n, err
}
