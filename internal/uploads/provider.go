// Package uploads stores dashboard image uploads on disk or in an S3
// compatible bucket.
package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/aTrapDeer/portfolio-backend/internal/config"
)

// Provider persists an uploaded object and knows its public URL.
type Provider interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error
	URL(key string) string
}

// NewProvider builds the provider selected by UPLOAD_BACKEND.
func NewProvider(cfg config.Config) (Provider, error) {
	switch cfg.UploadBackend {
	case "", "local":
		return NewLocalProvider(cfg.UploadDir)
	case "s3":
		return NewS3Provider(cfg)
	}
	return nil, fmt.Errorf("unknown upload backend %q", cfg.UploadBackend)
}

// LocalPath is the URL prefix under which local uploads are served.
const LocalPath = "/uploads/"

type LocalProvider struct {
	Root string
}

func NewLocalProvider(root string) (*LocalProvider, error) {
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalProvider{Root: root}, nil
}

func (l *LocalProvider) Put(_ context.Context, key string, body io.ReadSeeker, _ string) error {
	path := filepath.Join(l.Root, filepath.Base(key))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func (l *LocalProvider) URL(key string) string {
	return LocalPath + filepath.Base(key)
}

type S3Provider struct {
	api       s3iface.S3API
	bucket    string
	publicURL string
}

func NewS3Provider(cfg config.Config) (*S3Provider, error) {
	s3Config := &aws.Config{
		Region: aws.String(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		s3Config.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	if cfg.S3Endpoint != "" {
		s3Config.Endpoint = aws.String(cfg.S3Endpoint)
		s3Config.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	publicURL := cfg.S3PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}
	return newS3Provider(s3.New(sess), cfg.S3Bucket, publicURL), nil
}

func newS3Provider(api s3iface.S3API, bucket, publicURL string) *S3Provider {
	return &S3Provider{api: api, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *S3Provider) Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	_, err := s.api.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	return err
}

func (s *S3Provider) URL(key string) string {
	return s.publicURL + "/" + key
}
