package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// MediaSigner turns a stored video reference into a URL the client can play.
type MediaSigner interface {
	SignURL(ctx context.Context, ref string) (string, error)
}

// PassthroughSigner returns references unchanged
type PassthroughSigner struct{}

func (PassthroughSigner) SignURL(_ context.Context, ref string) (string, error) {
	return ref, nil
}

// S3SignerConfig holds configuration for S3MediaSigner
type S3SignerConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string // used for references without a bucket, e.g. "s3:///lesson-1.mp4"
	Region    string
	Endpoint  string // empty for AWS, set for S3 compatible stores
	TTL       time.Duration
}

// S3MediaSigner presigns "s3://bucket/key" references. Any other reference
// (plain https URLs, empty strings) is returned unchanged.
type S3MediaSigner struct {
	s3Client *s3.S3
	bucket   string
	ttl      time.Duration
}

// NewS3MediaSigner creates a signer backed by static credentials
func NewS3MediaSigner(config S3SignerConfig) (*S3MediaSigner, error) {
	awsConfig := &aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Region: aws.String(config.Region),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create media session: %w", err)
	}

	ttl := config.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &S3MediaSigner{
		s3Client: s3.New(sess),
		bucket:   config.Bucket,
		ttl:      ttl,
	}, nil
}

func (s *S3MediaSigner) SignURL(ctx context.Context, ref string) (string, error) {
	bucket, key, ok := parseS3Ref(ref)
	if !ok {
		return ref, nil
	}
	if bucket == "" {
		bucket = s.bucket
	}

	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	url, err := req.Presign(s.ttl)
	if err != nil {
		return "", fmt.Errorf("failed to presign media url: %w", err)
	}
	return url, nil
}

// parseS3Ref splits "s3://bucket/key". The bucket may be empty.
func parseS3Ref(ref string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(ref, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if key == "" {
		return "", "", false
	}
	return bucket, key, true
}
