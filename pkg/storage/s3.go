package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used for uploads.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Presigner is the subset of the presign client used to build download links.
type S3Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Uploader stores artifacts in a bucket and hands out presigned GET URLs.
type S3Uploader struct {
	client  S3API
	presign S3Presigner
	bucket  string
	prefix  string
	expiry  time.Duration
}

// LoadAWSConfig loads the default AWS config chain for region.
func LoadAWSConfig(ctx context.Context, region string) (sdkaws.Config, error) {
	if region == "" {
		region = "us-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return cfg, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewS3Uploader creates an uploader from a concrete S3 client.
func NewS3Uploader(client *s3.Client, bucket, prefix string, expiry time.Duration) *S3Uploader {
	return NewS3UploaderWithAPI(client, s3.NewPresignClient(client), bucket, prefix, expiry)
}

// NewS3UploaderWithAPI creates an uploader from the narrow interfaces.
func NewS3UploaderWithAPI(client S3API, presign S3Presigner, bucket, prefix string, expiry time.Duration) *S3Uploader {
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &S3Uploader{client: client, presign: presign, bucket: bucket, prefix: prefix, expiry: expiry}
}

func (u *S3Uploader) Upload(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := path.Join(u.prefix, name)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(u.bucket),
		Key:         sdkaws.String(key),
		Body:        body,
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put s3://%s/%s: %v", ErrUpload, u.bucket, key, err)
	}

	req, err := u.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: sdkaws.String(u.bucket),
		Key:    sdkaws.String(key),
	}, s3.WithPresignExpires(u.expiry))
	if err != nil {
		return "", fmt.Errorf("%w: presign s3://%s/%s: %v", ErrUpload, u.bucket, key, err)
	}
	return req.URL, nil
}

func (u *S3Uploader) Resolve(locator string) (string, error) {
	return ValidateURL(locator)
}
