package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"amenitymap/internal/events"
	"amenitymap/internal/keys"
	"amenitymap/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectClient is the part of *minio.Client the archive needs.
type objectClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// S3Service archives render snapshots in S3-compatible storage.
type S3Service struct {
	client objectClient
	log    *logger.Logger
}

// NewS3Service connects to the MinIO server using credentials from
// environment variables.
func NewS3Service(log *logger.Logger) (*S3Service, error) {
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	if minioEndpoint == "" || minioAccessKey == "" || minioSecretKey == "" {
		return nil, fmt.Errorf("missing one or more required environment variables: MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY")
	}

	minioClient, err := minio.New(minioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(minioAccessKey, minioSecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Info("connected to MinIO", "endpoint", minioEndpoint)
	return &S3Service{client: minioClient, log: log}, nil
}

func (s *S3Service) CreateBucket(ctx context.Context, bucketName string, location string) error {
	exists, err := s.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucketName, err)
	}
	return nil
}

// StoreSnapshot writes ev under its canonical key. An existing object is
// left untouched, so redelivered events are stored once. It returns the key
// and whether a new object was written.
func (s *S3Service) StoreSnapshot(ctx context.Context, bucketName string, ev events.Rendered) (string, bool, error) {
	objectKey := keys.Snapshot(ev)

	_, err := s.client.StatObject(ctx, bucketName, objectKey, minio.StatObjectOptions{})
	if err == nil {
		s.log.Debug("snapshot already archived", "bucket", bucketName, "key", objectKey)
		return objectKey, false, nil
	}
	if minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return objectKey, false, fmt.Errorf("failed to check for existing object: %w", err)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return objectKey, false, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = s.client.PutObject(
		ctx,
		bucketName,
		objectKey,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return objectKey, false, fmt.Errorf("failed to store object: %w", err)
	}

	s.log.Info("snapshot archived", "bucket", bucketName, "key", objectKey, "places", ev.ResultCount())
	return objectKey, true, nil
}
