// Package storage wraps the MinIO client used for profile pictures.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore uploads files to a single bucket and hands back public URLs.
type ObjectStore struct {
	mc       *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

// New creates the MinIO client. Endpoint, access key and secret key are
// all required; the caller decides whether object storage is optional.
func New(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("object storage requires endpoint, access key and secret key")
	}
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &ObjectStore{mc: mc, bucket: bucket, endpoint: endpoint, secure: useSSL}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// UploadFile stores a locally staged file under a random key and returns
// the object key and its public URL. The caller removes the local file.
func (s *ObjectStore) UploadFile(ctx context.Context, localPath, contentType string) (key, publicURL string, err error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key = uuid.NewString() + filepath.Ext(localPath)
	if _, err = s.mc.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, s.URLFor(key), nil
}

// Remove deletes an object, used to roll back an upload whose database
// write failed.
func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	return s.mc.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// URLFor builds the public URL of an object.
func (s *ObjectStore) URLFor(key string) string {
	scheme := "http"
	if s.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, url.PathEscape(key))
}
