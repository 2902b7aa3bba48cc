// Package storage provides the S3-compatible object store adapter.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/felipebrgs1/PDFReactView/internal/domain"
)

// S3Store implements the domain.ObjectStore interface against an
// S3-compatible service (MinIO in the default deployment). The wrapped
// client is safe for concurrent use across overlapping requests.
type S3Store struct {
	client *s3.Client
	bucket string
	logger domain.Logger
}

// NewS3Store creates a new object store adapter from the app configuration
func NewS3Store(ctx context.Context, cfg domain.Config, logger domain.Logger) (*S3Store, error) {
	scheme := "http"
	if cfg.GetMinioUseSSL() {
		scheme = "https"
	}
	endpoint := fmt.Sprintf("%s://%s:%d", scheme, cfg.GetMinioEndpoint(), cfg.GetMinioPort())

	resolver := aws.EndpointResolverWithOptionsFunc(
		func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               endpoint,
				HostnameImmutable: true,
			}, nil
		},
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.GetMinioAccessKey(), cfg.GetMinioSecretKey(), ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true // Required for MinIO
	})

	return &S3Store{
		client: client,
		bucket: cfg.GetMinioBucket(),
		logger: logger,
	}, nil
}

// EnsureBucket checks that the bucket exists and creates it if absent.
// Idempotent; callers treat failure as a startup warning, not a fatal error.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	_, createErr := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if createErr != nil {
		return fmt.Errorf("bucket %s does not exist and cannot create: %w", s.bucket, createErr)
	}

	s.logger.Info("Created bucket", "bucket", s.bucket)
	return nil
}

// Put writes an immutable blob under key. Keys are generated to be unique,
// so no overwrite protection is applied.
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Get fetches a blob by key, materializing the body into memory. Returns
// domain.ErrBlobNotFound when the key does not exist.
func (s *S3Store) Get(ctx context.Context, key string) (*domain.Blob, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noKey) || errors.As(err, &notFound) {
			return nil, domain.ErrBlobNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}

	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}

	return &domain.Blob{Data: data, ContentType: contentType}, nil
}
