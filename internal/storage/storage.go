// Package storage wraps the S3-compatible object store holding ECM source
// documents. When no endpoint is configured the service degrades to a no-op
// and uploads report an empty storage path.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vmr_backend/platform/config"
	"vmr_backend/platform/logger"
)

type Service struct {
	client *minio.Client
	bucket string
	log    *logger.Logger
}

func New(cfg config.StorageConfig, log *logger.Logger) (*Service, error) {
	if !cfg.IsMinIOEnabled() {
		return &Service{bucket: cfg.GetMinioBucketECMSourceFiles(), log: log}, nil
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &Service{client: client, bucket: cfg.GetMinioBucketECMSourceFiles(), log: log}, nil
}

// Enabled reports whether an object store is configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// EnsureBucket creates the source file bucket when it does not exist yet.
func (s *Service) EnsureBucket(ctx context.Context) error {
	if s.client == nil {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("bucket exists check: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket: %w", err)
	}
	return nil
}

// Upload stores one object and returns its storage path. Returns an empty
// path when storage is disabled.
func (s *Service) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	if s.client == nil {
		return "", nil
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.bucket + "/" + objectName, nil
}
