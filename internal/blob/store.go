// Package blob handles the staged-upload object store. Large files are
// staged in an S3-compatible bucket before the gateway fetches and forwards
// them to Confluence; after a successful embed the staged object is deleted.
package blob

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vishkar/confluence-gateway/internal/config"
)

// Store identifies and deletes staged blobs by their public URL.
type Store interface {
	// IsStaged reports whether rawURL points into the staging store.
	IsStaged(rawURL string) bool
	// Delete removes the staged object behind rawURL.
	Delete(ctx context.Context, rawURL string) error
}

// S3Store deletes staged objects from an S3-compatible bucket.
type S3Store struct {
	client  *s3.Client
	bucket  string
	urlHost string
	logger  *slog.Logger
}

// NewS3Store constructs an S3Store from the blob configuration.
func NewS3Store(ctx context.Context, cfg config.BlobConfig, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blob: bucket required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("blob: load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing for MinIO and similar services.
			o.UsePathStyle = true
		}
	})

	urlHost := cfg.URLHost
	if urlHost == "" && cfg.Endpoint != "" {
		if parsed, err := url.Parse(cfg.Endpoint); err == nil {
			urlHost = parsed.Host
		}
	}

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		urlHost: urlHost,
		logger:  logger,
	}, nil
}

// IsStaged reports whether rawURL is served from the staging store's host.
func (s *S3Store) IsStaged(rawURL string) bool {
	if s.urlHost == "" {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host == s.urlHost || strings.HasSuffix(parsed.Host, "."+s.urlHost)
}

// Delete removes the object behind rawURL from the bucket.
func (s *S3Store) Delete(ctx context.Context, rawURL string) error {
	key, err := s.objectKey(rawURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blob: delete %s: %w", key, err)
	}

	s.logger.Debug("deleted staged blob", slog.String("key", key))
	return nil
}

// objectKey derives the object key from a staged URL, handling both
// path-style (host/bucket/key) and virtual-host-style (bucket.host/key) URLs.
func (s *S3Store) objectKey(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("blob: parse url: %w", err)
	}

	key := strings.TrimPrefix(parsed.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("blob: no object key in url %q", rawURL)
	}
	return key, nil
}

// NoopStore is used when no staging store is configured. Nothing is ever
// considered staged.
type NoopStore struct{}

func (NoopStore) IsStaged(string) bool                 { return false }
func (NoopStore) Delete(context.Context, string) error { return nil }
