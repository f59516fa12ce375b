package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStorage keeps media objects in a Google Cloud Storage bucket
type GCSStorage struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a client from a credentials file, or from application
// default credentials when credsPath is empty.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

func NewGCSStorage(client *storage.Client, bucket string) *GCSStorage {
	return &GCSStorage{client: client, bucket: bucket}
}

// PublicBaseURL is the MEDIA_URL for objects of a publicly readable bucket
func PublicBaseURL(bucket string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/", bucket)
}

func (s *GCSStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}

	// cancelling the writer's context abandons the upload; Close would commit it
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obj := s.client.Bucket(s.bucket).Object(name).If(storage.Conditions{DoesNotExist: true})
	wc := obj.NewWriter(wctx)
	wc.ContentType = contentType
	wc.ChunkSize = 0 // single request for small files

	if _, err := io.Copy(wc, r); err != nil {
		cancel()
		_ = wc.Close()
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", name, err)
	}

	return name, nil
}

func (s *GCSStorage) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}

	err = s.client.Bucket(s.bucket).Object(name).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// Close releases the underlying client
func (s *GCSStorage) Close() error {
	return s.client.Close()
}
