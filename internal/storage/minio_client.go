package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"gatortrader/internal/config"
)

// ImageStore is the upload collaborator the listing core expects. The core
// only ever reads a post's image count; the store owns keeping the stored
// files consistent with it, under the posts/{id}-{n}.jpg naming convention.
type ImageStore interface {
	UploadPostImage(ctx context.Context, postID int64, imageNumber int, file io.Reader, size int64) (string, error)
	RemovePostImage(ctx context.Context, postID int64, imageNumber int) error
}

type MinIOClient struct {
	client *minio.Client
	cfg    *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	return &MinIOClient{client: client, cfg: cfg}, nil
}

// ObjectName is the storage path of image n of a post. It matches the
// derived locations the Post entity computes.
func ObjectName(postID int64, imageNumber int) string {
	return fmt.Sprintf("posts/%d-%d.jpg", postID, imageNumber)
}

func (m *MinIOClient) UploadPostImage(ctx context.Context, postID int64, imageNumber int, file io.Reader, size int64) (string, error) {
	objectName := ObjectName(postID, imageNumber)

	_, err := m.client.PutObject(ctx, m.cfg.MinIO.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: "image/jpeg",
			UserMetadata: map[string]string{
				"post-id": fmt.Sprintf("%d", postID),
			},
		})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to MinIO: %w", err)
	}

	return objectName, nil
}

func (m *MinIOClient) RemovePostImage(ctx context.Context, postID int64, imageNumber int) error {
	err := m.client.RemoveObject(ctx, m.cfg.MinIO.BucketName, ObjectName(postID, imageNumber),
		minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove image from MinIO: %w", err)
	}
	return nil
}
