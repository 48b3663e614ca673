package services

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-blog/config"
)

// MediaResolver turns a stored picture or image reference into a URL a
// browser can load.
type MediaResolver interface {
	URL(ctx context.Context, key string) string
}

// NewMediaResolver serves media from S3 when MEDIA_S3_BUCKET is set and from
// the MEDIA_URL prefix otherwise.
func NewMediaResolver(ctx context.Context, c map[string]string) (MediaResolver, error) {
	static := NewStaticMediaResolver(config.GetString(c, "MEDIA_URL", "/media/"))

	bucket := config.GetString(c, "MEDIA_S3_BUCKET", "")
	if bucket == "" {
		return static, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	presigner := s3.NewPresignClient(s3.NewFromConfig(awsCfg))
	expiry := config.GetMinutes(c, "MEDIA_URL_EXPIRY_MINUTES", 60)
	return NewS3MediaResolver(presigner, bucket, expiry, static), nil
}

func isAbsoluteURL(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") || strings.HasPrefix(key, "//")
}

// StaticMediaResolver joins keys onto a public prefix.
type StaticMediaResolver struct {
	prefix string
}

func NewStaticMediaResolver(prefix string) StaticMediaResolver {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return StaticMediaResolver{prefix: prefix}
}

func (r StaticMediaResolver) URL(_ context.Context, key string) string {
	if key == "" || isAbsoluteURL(key) {
		return key
	}
	return r.prefix + strings.TrimPrefix(key, "/")
}

type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3MediaResolver hands out presigned GET URLs for objects in a bucket,
// falling back to another resolver when signing fails.
type S3MediaResolver struct {
	presigner presigner
	bucket    string
	expiry    time.Duration
	fallback  MediaResolver
	logger    zerolog.Logger
}

func NewS3MediaResolver(p presigner, bucket string, expiry time.Duration, fallback MediaResolver) *S3MediaResolver {
	return &S3MediaResolver{
		presigner: p,
		bucket:    bucket,
		expiry:    expiry,
		fallback:  fallback,
		logger:    log.With().Str("service", "S3MediaResolver").Logger(),
	}
}

func (r *S3MediaResolver) URL(ctx context.Context, key string) string {
	if key == "" || isAbsoluteURL(key) {
		return key
	}

	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(strings.TrimPrefix(key, "/")),
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("Failed to presign media URL")
		return r.fallback.URL(ctx, key)
	}
	return req.URL
}
