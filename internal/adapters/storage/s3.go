package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"stagepass/internal/domain"
)

// S3Config holds configuration for the S3 object store.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint overrides the S3 endpoint, e.g. for MinIO in development.
	Endpoint string
	// PublicBaseURL is the URL prefix returned for stored objects. Empty
	// falls back to the standard virtual-hosted S3 URL.
	PublicBaseURL string
}

// StorageConfig holds configuration for creating a FileStorage.
// Provider "s3" uses AWS S3; "noop" or unknown uses a no-op store.
type StorageConfig struct {
	Provider string
	S3       S3Config
}

func NewFileStorage(config StorageConfig) (domain.FileStorage, error) {
	switch config.Provider {
	case "s3":
		s3Config := config.S3
		if s3Config.Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires a bucket name")
		}
		awsCfg := aws.Config{
			Region: s3Config.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(
					s3Config.AccessKeyID,
					s3Config.SecretAccessKey,
					"",
				),
			),
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if s3Config.Endpoint != "" {
				o.BaseEndpoint = aws.String(s3Config.Endpoint)
				o.UsePathStyle = true
			}
		})
		baseURL := s3Config.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s3Config.Bucket, s3Config.Region)
		}
		return &s3Storage{
			client:  client,
			bucket:  s3Config.Bucket,
			baseURL: strings.TrimRight(baseURL, "/"),
		}, nil
	case "noop":
		return &noopStorage{}, nil
	default:
		log.Printf("[STORAGE] Unknown storage provider %q, using noop", config.Provider)
		return &noopStorage{}, nil
	}
}

type s3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func (s *s3Storage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

type noopStorage struct{}

func (n *noopStorage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	log.Println("[STORAGE] Object would be stored (noop)", "key", key)
	return "https://storage.invalid/" + key, nil
}

func (n *noopStorage) Delete(ctx context.Context, key string) error {
	log.Println("[STORAGE] Object would be deleted (noop)", "key", key)
	return nil
}
