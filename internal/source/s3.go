package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds optional S3 access settings for s3:// sources.
type S3Config struct {
	Region          string
	Endpoint        string // Optional: for S3-compatible endpoints
	AccessKeyID     string // Optional: static credentials
	SecretAccessKey string
}

// S3Fetcher downloads s3://bucket/key sources into local temp files.
type S3Fetcher struct {
	client *s3.Client
}

// NewS3Fetcher creates a fetcher from the given configuration. Static
// credentials are used when provided, otherwise the default AWS chain.
func NewS3Fetcher(ctx context.Context, cfg S3Config) (*S3Fetcher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Fetcher{client: s3.NewFromConfig(awsCfg, clientOpts...)}, nil
}

// Fetch downloads the object behind an s3:// URL into a fresh temp
// directory and returns the local path.
func (f *S3Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	bucket, key, err := ParseS3URL(rawURL)
	if err != nil {
		return "", err
	}

	obj, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("%w: s3://%s/%s: %v", ErrTransferFailed, bucket, key, err)
	}
	defer func() { _ = obj.Body.Close() }()

	dir, err := os.MkdirTemp("", "v2i_download_")
	if err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}

	name := path.Base(key)
	if name == "" || name == "/" || name == "." {
		name = "download.mp4"
	}
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst) // #nosec G304 - path is inside our fresh temp dir
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("create download file: %w", err)
	}
	if _, err := io.Copy(out, obj.Body); err != nil {
		_ = out.Close()
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := out.Close(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("close download file: %w", err)
	}
	return dst, nil
}

// ParseS3URL splits an s3://bucket/key URL into its parts.
func ParseS3URL(rawURL string) (bucket, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", fmt.Errorf("%w: invalid S3 URL %q", ErrTransferFailed, rawURL)
	}
	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", fmt.Errorf("%w: S3 URL %q has no object key", ErrTransferFailed, rawURL)
	}
	return u.Host, key, nil
}
