package storage

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"

	"backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarStorage persists uploaded avatar images and returns a public URL.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
}

// Service stores avatars in a public-read MinIO bucket.
type Service struct {
	client *minio.Client
	bucket string
	useSSL bool
}

// NewService connects to MinIO and makes sure the avatar bucket exists with
// a public-read policy. Safe to call on every startup.
func NewService(cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("error initializing minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket '%s': %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("error creating bucket '%s': %w", cfg.MinioBucket, err)
		}
		log.Printf("Bucket '%s' created successfully.", cfg.MinioBucket)
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, cfg.MinioBucket)
	if err := client.SetBucketPolicy(ctx, cfg.MinioBucket, policy); err != nil {
		return nil, fmt.Errorf("error setting public-read policy for bucket '%s': %w", cfg.MinioBucket, err)
	}

	return &Service{client: client, bucket: cfg.MinioBucket, useSSL: cfg.MinioUseSSL}, nil
}

// UploadAvatar stores the file under a random object name and returns the
// public URL of the stored image.
func (s *Service) UploadAvatar(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		objectName,
		file,
		header.Size,
		minio.PutObjectOptions{
			ContentType: header.Header.Get("Content-Type"),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar to MinIO: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, objectName), nil
}
