package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Uploader struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Uploader(ctx context.Context, region, bucket, prefix string) (*S3Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Uploader{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: prefix}, nil
}

func (u *S3Uploader) Close() error { return nil }

func (u *S3Uploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	key := applyPrefix(u.prefix, objectName)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(u.bucket),
		Key:                  aws.String(key),
		Body:                 r,
		ContentType:          aws.String(contentType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object bucket=%s key=%s: %w", u.bucket, key, err)
	}
	return fmt.Sprintf("s3://%s/%s", u.bucket, key), nil
}
