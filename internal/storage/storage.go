// Package storage wraps Backblaze B2 object storage for uploaded PDFs and
// editable documents.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/kurin/blazer/b2"
)

// Files is the surface handlers and the tree controller consume.
type Files interface {
	Upload(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	DeleteByURL(ctx context.Context, url string) error
}

type B2Files struct {
	client *b2.Client
	bucket *b2.Bucket
}

func NewB2(ctx context.Context, accountID, appKey, bucketName string) (*B2Files, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, fmt.Errorf("creating b2 client: %w", err)
	}
	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("opening bucket %s: %w", bucketName, err)
	}
	return &B2Files{client: client, bucket: bucket}, nil
}

// Upload writes the object and returns its public download URL.
func (f *B2Files) Upload(ctx context.Context, key string, r io.Reader) (string, error) {
	obj := f.bucket.Object(key)
	w := obj.NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("writing object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing object %s: %w", key, err)
	}
	return fmt.Sprintf("%s/file/%s/%s", f.bucket.BaseURL(), f.bucket.Name(), key), nil
}

func (f *B2Files) Delete(ctx context.Context, key string) error {
	return f.bucket.Object(key).Delete(ctx)
}

// DeleteByURL reverse-parses the storage key out of a stored download URL
// and deletes the object. An unparseable URL is an error; callers treat the
// file as orphaned and move on.
func (f *B2Files) DeleteByURL(ctx context.Context, url string) error {
	key, err := ParseKey(url)
	if err != nil {
		return err
	}
	return f.Delete(ctx, key)
}
