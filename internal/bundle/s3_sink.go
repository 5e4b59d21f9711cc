package bundle

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Sink uploads bundles to an S3-compatible bucket under
// "<root base name>/<unix nanos>-<DefaultName>" and returns a presigned URL.
type S3Sink struct {
	client     *minio.Client
	bucketName string
	region     string
	urlExpiry  time.Duration
	now        func() time.Time

	initOnce sync.Once
	initErr  error
}

func NewS3Sink(cfg S3Config) (*S3Sink, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Sink{
		client:     client,
		bucketName: bucket,
		region:     region,
		urlExpiry:  time.Hour,
		now:        time.Now,
	}, nil
}

func (s *S3Sink) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

func (s *S3Sink) Write(ctx context.Context, root string, content []byte) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("sink is nil")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	key := ObjectKey(root, s.now())
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("put bundle: %w", err)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, key, s.urlExpiry, nil)
	if err != nil {
		return fmt.Sprintf("s3://%s/%s", s.bucketName, key), nil
	}
	return u.String(), nil
}

// ObjectKey builds the object key for a bundle of root written at ts.
func ObjectKey(root string, ts time.Time) string {
	base := filepath.Base(filepath.Clean(strings.TrimSpace(root)))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "root"
	}
	return fmt.Sprintf("%s/%d-%s", base, ts.UnixNano(), DefaultName)
}
