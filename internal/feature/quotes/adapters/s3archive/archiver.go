// Package s3archive uploads columnar files to Amazon S3.
package s3archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"stock_etl/internal/feature/quotes/usecase"
)

//go:generate go run go.uber.org/mock/mockgen -destination=mock_put_object_api_test.go -package=s3archive . PutObjectAPI

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver uploads local files to a single bucket.
type Archiver struct {
	api    PutObjectAPI
	bucket string
}

var _ usecase.Archiver = (*Archiver)(nil)

// New creates an Archiver. An empty bucket is accepted here and reported on Archive.
func New(api PutObjectAPI, bucket string) *Archiver {
	return &Archiver{api: api, bucket: bucket}
}

// NewFromRegion builds an S3 client from the default AWS credential chain.
func NewFromRegion(ctx context.Context, region, bucket string) (*Archiver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket), nil
}

// Archive uploads localPath to s3://bucket/key, overwriting any existing object.
// A missing bucket fails with usecase.ErrConfiguration before anything is sent.
func (a *Archiver) Archive(ctx context.Context, localPath, key string) error {
	if a.bucket == "" {
		return fmt.Errorf("%w: S3_BUCKET is not set", usecase.ErrConfiguration)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close archived file", "path", localPath, "error", err)
		}
	}()

	if _, err := a.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   f,
	}); err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", a.bucket, key, err)
	}

	slog.Info("uploaded file", "path", localPath, "bucket", a.bucket, "key", key)
	return nil
}
