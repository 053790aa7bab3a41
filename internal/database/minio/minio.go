package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"ecoinsure/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// EvidenceBucket holds claim evidence documents.
const EvidenceBucket = "claim-evidence"

// MinioClient wraps the MinIO client used for evidence document storage.
type MinioClient struct {
	client *minio.Client
}

func NewMinioClient(cfg config.MinioConfig) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	secure := cfg.Secure == "true"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	mc := &MinioClient{client: client}
	if err := mc.ensureBucket(context.Background(), EvidenceBucket, cfg.Location); err != nil {
		return nil, err
	}

	slog.Info("MinIO client initialized", "endpoint", endpoint, "bucket", EvidenceBucket)
	return mc, nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName, location string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if exists {
		return nil
	}

	err = mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}
	slog.Info("Created bucket", "bucket", bucketName)
	return nil
}

// UploadBytes stores an object and returns nothing; the caller records the
// object key on the owning record.
func (mc *MinioClient) UploadBytes(ctx context.Context, bucketName, objectName string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := mc.client.PutObject(ctx, bucketName, objectName, reader, int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucketName, objectName, err)
	}
	return nil
}

// GetFile retrieves an object for reading. The caller must close it.
func (mc *MinioClient) GetFile(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	obj, err := mc.client.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", bucketName, objectName, err)
	}
	return obj, nil
}

// DeleteFile removes an object.
func (mc *MinioClient) DeleteFile(ctx context.Context, bucketName, objectName string) error {
	if err := mc.client.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", bucketName, objectName, err)
	}
	return nil
}
