package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3 stores images in an S3-compatible bucket (AWS, MinIO, CEPH).
type S3 struct {
	client    *s3.Client
	bucket    string
	publicURL string // base URL for public reads, empty for private buckets
}

// S3Config holds the settings for an S3-compatible connection.
type S3Config struct {
	Endpoint       string // e.g. "http://localhost:9000"; empty uses the AWS default
	Region         string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool // true for MinIO/CEPH
	Bucket         string
	PublicURL      string // public base URL for this bucket (empty = private)
}

// NewS3 creates an S3-compatible image store.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *S3) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", fmt.Errorf("storing %q: %w", key, err)
	}

	input := &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("putting object %s: %w", key, err)
	}

	return s.objectURL(key), nil
}

// Delete removes key from the bucket. A NoSuchKey response counts as success.
func (s *S3) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return fmt.Errorf("removing %q: %w", key, err)
	}

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if _, err := s.client.DeleteObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}

func (s *S3) objectURL(key string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key)
}
