package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"catchrec/internal/platform/config"
)

// S3Store implements Store against an S3-compatible backend (AWS S3 or MinIO).
// Single bucket; names map to object keys directly.
type S3Store struct {
	client *s3.Client
	bucket string
}

// NewS3 builds an S3 store from storage configuration.
func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) WriteText(ctx context.Context, name, text string) error {
	contentType := "application/json"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &name,
		Body:        strings.NewReader(text),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	return nil
}

func (s *S3Store) ReadText(ctx context.Context, name string) (string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &name})
	if err != nil {
		return "", fmt.Errorf("read blob %s: %w", name, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return "", fmt.Errorf("read blob %s body: %w", name, err)
	}
	return string(data), nil
}
