// Package branding resolves company branding for rendered documents: the
// profile from configuration and the images from an S3 bucket.
package branding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	domain "github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ domain.AssetResolver = (*S3AssetResolver)(nil)

// assetExtensions are tried in order when looking up an asset object
var assetExtensions = []string{".png", ".jpg", ".jpeg"}

// S3AssetResolver finds branding images stored as <prefix><asset>.<ext> in
// an S3 compatible bucket and hands out presigned GET URLs for them
type S3AssetResolver struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	prefix            string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3AssetResolverOption configures an S3AssetResolver
type S3AssetResolverOption func(*S3AssetResolver)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) S3AssetResolverOption {
	return func(r *S3AssetResolver) {
		r.logger = logger
	}
}

// NewS3AssetResolver creates a resolver from the storage configuration.
// Without static credentials the default AWS credential chain is used.
func NewS3AssetResolver(ctx context.Context, cfg *config.StorageConfig, opts ...S3AssetResolverOption) (*S3AssetResolver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	r := &S3AssetResolver{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		prefix:            cfg.Prefix,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.presignExpiration == 0 {
		r.presignExpiration = 15 * time.Minute
	}
	return r, nil
}

// ResolveAsset implements branding.AssetResolver
func (r *S3AssetResolver) ResolveAsset(ctx context.Context, asset domain.AssetType) (string, bool, error) {
	if !asset.IsValid() {
		return "", false, fmt.Errorf("unknown branding asset %q", asset)
	}

	for _, ext := range assetExtensions {
		key := r.objectKey(asset, ext)
		exists, err := r.objectExists(ctx, key)
		if err != nil {
			return "", false, err
		}
		if !exists {
			continue
		}

		req, err := r.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(key),
		}, s3.WithPresignExpires(r.presignExpiration))
		if err != nil {
			return "", false, fmt.Errorf("failed to presign %s: %w", key, err)
		}
		r.logger.Debug("branding asset resolved", zap.String("asset", string(asset)), zap.String("key", key))
		return req.URL, true, nil
	}
	return "", false, nil
}

func (r *S3AssetResolver) objectKey(asset domain.AssetType, ext string) string {
	return r.prefix + string(asset) + ext
}

func (r *S3AssetResolver) objectExists(ctx context.Context, key string) (bool, error) {
	_, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}

	var notFound *types.NotFound
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return false, nil
	}
	// Some S3 compatible stores report a missing key with a generic error.
	if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
		return false, nil
	}
	return false, fmt.Errorf("failed to check branding object %s: %w", key, err)
}
