package output

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/df07/go-sphere-raytracer/pkg/config"
	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 10 * time.Second

// ObjectPutter is the part of the S3 client the uploader needs
type ObjectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// S3Uploader publishes encoded renders to an S3-compatible bucket
type S3Uploader struct {
	client  ObjectPutter
	bucket  string
	prefix  string
	timeout time.Duration
	logger  core.Logger
}

// NewS3Uploader creates a session with static credentials and path-style addressing,
// which S3-compatible stores expect
func NewS3Uploader(cfg config.S3Config, logger core.Logger) (*S3Uploader, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("s3 upload requires %s", config.EnvS3Bucket)
	}

	s3Config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(true),
	}
	if cfg.Endpoint != "" {
		s3Config.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}

	return NewS3UploaderWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix, logger), nil
}

// NewS3UploaderWithClient wraps an existing client
func NewS3UploaderWithClient(client ObjectPutter, bucket, prefix string, logger core.Logger) *S3Uploader {
	return &S3Uploader{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		timeout: UploadTimeout,
		logger:  logger,
	}
}

// Upload stores data under prefix/name and returns the object key
func (u *S3Uploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	key := path.Join(u.prefix, name)
	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if u.logger != nil {
		u.logger.Printf("Uploaded %s to s3://%s (%d bytes)\n", key, u.bucket, size)
	}
	return key, nil
}
