package spaces

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// SpacesStore uploads export files to an S3-compatible object storage
// bucket (DigitalOcean Spaces or plain S3).
type SpacesStore struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// Config holds the bucket connection settings.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// ConfigFromEnv reads the bucket settings from the environment.
//
// Supported env vars:
//   - SPACES_ENDPOINT (e.g. https://fra1.digitaloceanspaces.com)
//   - SPACES_REGION (default: us-east-1)
//   - SPACES_BUCKET
//   - SPACES_ACCESS_KEY / SPACES_SECRET_KEY
func ConfigFromEnv() Config {
	return Config{
		Endpoint:  os.Getenv("SPACES_ENDPOINT"),
		Region:    getenvDefault("SPACES_REGION", "us-east-1"),
		Bucket:    os.Getenv("SPACES_BUCKET"),
		AccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SecretKey: os.Getenv("SPACES_SECRET_KEY"),
	}
}

// NewSpacesStore creates a store from the given settings.
func NewSpacesStore(ctx context.Context, cfg Config) (*SpacesStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("spaces store: empty bucket")
	}

	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return &SpacesStore{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: cfg.Endpoint,
	}, nil
}

// Put uploads an object with public-read ACL and returns its public URL.
func (s *SpacesStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("spaces store: empty key")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", err
	}
	return s.publicURL(key), nil
}

func (s *SpacesStore) publicURL(key string) string {
	if s.endpoint == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	}
	parsed, err := url.Parse(s.endpoint)
	if err != nil || parsed.Host == "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, parsed.Host, key)
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
