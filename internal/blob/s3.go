package blob

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fv-go/internal/config"
	"fv-go/internal/fv"
)

// S3BlobStore stores blobs in an S3 bucket (or an S3-compatible service when
// an endpoint override is configured). Object keys are placed under an
// optional key prefix.
type S3BlobStore struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3BlobStore creates a new S3 blob store from the blob configuration.
// Credentials come from the default AWS chain unless static keys are set.
func NewS3BlobStore(ctx context.Context, cfg config.BlobConfig) (*S3BlobStore, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 blob store requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// S3-compatible services typically do not support virtual-hosted
			// bucket addressing.
			o.UsePathStyle = true
		}
	})

	return &S3BlobStore{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
	}, nil
}

// objectKey prepends the configured prefix to the blob key.
func (v *S3BlobStore) objectKey(key string) string {
	if v.prefix == "" {
		return key
	}
	return path.Join(v.prefix, key)
}

// Upload stores the blob under key, replacing any previous object.
func (v *S3BlobStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*fv.BlobRef, error) {
	objKey := v.objectKey(key)
	out, err := v.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(v.bucket),
		Key:         aws.String(objKey),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to s3: %w", err)
	}

	url := out.Location
	if url == "" {
		url = fmt.Sprintf("s3://%s/%s", v.bucket, objKey)
	}

	return &fv.BlobRef{
		ID:          key,
		URL:         url,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Download retrieves the blob stored under key and writes it to w.
func (v *S3BlobStore) Download(ctx context.Context, key string, w io.Writer) error {
	out, err := v.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(v.bucket),
		Key:    aws.String(v.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("failed to download from s3: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("failed to read s3 object: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the bucket exists and is accessible.
func (v *S3BlobStore) ValidateSetup() error {
	_, err := v.client.HeadBucket(context.Background(), &s3.HeadBucketInput{
		Bucket: aws.String(v.bucket),
	})
	if err != nil {
		return fmt.Errorf("s3 bucket %s not accessible: %w", v.bucket, err)
	}
	return nil
}

// Compile-time check that S3BlobStore implements fv.BlobStore interface
var _ fv.BlobStore = (*S3BlobStore)(nil)
