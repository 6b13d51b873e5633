package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	appconfig "github.com/Sagar-1103/blush-build/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// StorageService uploads images to object storage and hands back durable
// public URLs.
type StorageService struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewStorageService creates a new storage service from config
func NewStorageService(ctx context.Context, cfg appconfig.StorageConfig) (*StorageService, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBaseURL := cfg.PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &StorageService{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload stores one object under a fresh key and returns its public URL
func (s *StorageService) Upload(ctx context.Context, contentType string, body io.Reader) (string, error) {
	key := "pages/" + uuid.New().String() + extensionFor(contentType)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %v: %w", err, ErrUpstream)
	}

	return s.publicBaseURL + "/" + key, nil
}

// EnsureDurable resolves one image reference from a page form. Data URIs are
// decoded and uploaded; http(s) URLs are already durable and pass through
// unchanged. Browser-local blob: references cannot be fetched server-side.
func (s *StorageService) EnsureDurable(ctx context.Context, ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, "data:"):
		contentType, data, err := decodeDataURI(ref)
		if err != nil {
			return "", err
		}
		return s.Upload(ctx, contentType, bytes.NewReader(data))
	case strings.HasPrefix(ref, "blob:"):
		return "", fmt.Errorf("blob reference cannot be uploaded server-side: %w", ErrValidation)
	default:
		return ref, nil
	}
}

// decodeDataURI parses a base64 data URI like "data:image/png;base64,...."
func decodeDataURI(uri string) (contentType string, data []byte, err error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI: %w", ErrValidation)
	}

	contentType = meta
	base64Encoded := false
	if rest, found := strings.CutSuffix(meta, ";base64"); found {
		contentType = rest
		base64Encoded = true
	}
	if contentType == "" {
		contentType = "text/plain"
	}

	if base64Encoded {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("malformed data URI payload: %w", ErrValidation)
		}
		return contentType, data, nil
	}
	return contentType, []byte(payload), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
