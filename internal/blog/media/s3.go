// Package media stores uploaded post attachments in an S3-compatible bucket
// (MinIO in dev, R2 or anything speaking the S3 API in prod) and hands back
// public URLs for the stored objects.
package media

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Uploader is the object-storage contract the post service depends on.
type Uploader interface {
	UploadBytes(ctx context.Context, data []byte, filename string) (string, error)
}

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	PublicBaseURL string // CDN or public bucket URL; falls back to endpoint/bucket
}

// S3Uploader implements Uploader against the AWS S3 API.
type S3Uploader struct {
	client *s3.Client
	cfg    Config
}

// NewS3Uploader builds a path-style S3 client with static credentials, the
// setup MinIO and R2 both expect.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Uploader{client: client, cfg: cfg}, nil
}

// EnsureBucket creates the bucket if it does not exist yet. Called once at
// startup; an already-owned bucket is not an error.
func (u *S3Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(u.cfg.Bucket),
	})
	var owned *types.BucketAlreadyOwnedByYou
	var exists *types.BucketAlreadyExists
	if errors.As(err, &owned) || errors.As(err, &exists) {
		return nil
	}
	return err
}

// UploadBytes writes data under a random key prefixed with a UUID so two
// uploads of the same filename never collide, and returns the public URL.
func (u *S3Uploader) UploadBytes(ctx context.Context, data []byte, filename string) (string, error) {
	key := objectKey(filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", err
	}

	if base := strings.TrimRight(u.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + key, nil
	}
	return strings.TrimRight(u.cfg.Endpoint, "/") + "/" + u.cfg.Bucket + "/" + key, nil
}

// objectKey builds "<uuid-hex>_<basename>". Only the base name survives so a
// crafted filename cannot nest the object under another prefix.
func objectKey(filename string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return hex + "_" + path.Base(filename)
}
