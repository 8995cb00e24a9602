package publisher

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// objectPutter is the slice of the S3 client the publisher needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads assets to a bucket under a key prefix
type S3Publisher struct {
	client objectPutter
	bucket string
	prefix string
}

// NewS3Publisher builds a client from the default AWS credential chain.
// region overrides the chain's region when set.
func NewS3Publisher(ctx context.Context, bucket, prefix, region string) (*S3Publisher, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3Publisher(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func newS3Publisher(client objectPutter, bucket, prefix string) *S3Publisher {
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (p *S3Publisher) objectKey(key string) string {
	if p.prefix == "" {
		return key
	}
	return path.Join(p.prefix, key)
}

// Put uploads body as one object
func (p *S3Publisher) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(p.objectKey(key)),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", p.objectKey(key), err)
	}
	return nil
}

// Location returns s3://bucket/prefix
func (p *S3Publisher) Location() string {
	if p.prefix == "" {
		return "s3://" + p.bucket
	}
	return "s3://" + p.bucket + "/" + p.prefix
}
