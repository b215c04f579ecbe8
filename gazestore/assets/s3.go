package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

const defaultRegion = "us-east-1"

// ObjectGetter is the subset of *s3.Client the S3Resolver needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config holds the construction parameters of an S3Resolver.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string // optional, e.g. for MinIO
	PathStyle bool
}

// S3Resolver reads assets from a single bucket; keys are Prefix + relative path.
type S3Resolver struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewS3Resolver builds a client from the default AWS credential chain.
func NewS3Resolver(ctx context.Context, cfg S3Config) (*S3Resolver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewS3ResolverWithClient(client, cfg.Bucket, cfg.Prefix)
}

// NewS3ResolverWithClient wraps an existing client.
func NewS3ResolverWithClient(client ObjectGetter, bucket, prefix string) (*S3Resolver, error) {
	if client == nil {
		return nil, errors.New("s3 client must not be nil")
	}

	if bucket == "" {
		return nil, errors.New("s3 bucket required")
	}

	return &S3Resolver{client: client, bucket: bucket, prefix: prefix}, nil
}

// Resolve fetches the object at Prefix/relPath. A missing key yields gazestore.ErrAssetNotFound.
func (r *S3Resolver) Resolve(ctx context.Context, relPath string) ([]byte, error) {
	local, err := localPath(relPath)
	if err != nil {
		return nil, err
	}

	key := r.key(local)

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(r.bucket), Key: aws.String(key)})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, errors.Join(gazestore.ErrAssetNotFound, err)
		}

		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}

	return data, nil
}

func (r *S3Resolver) key(local string) string {
	slashed := path.Clean(filepath.ToSlash(local))
	if r.prefix == "" {
		return slashed
	}

	return path.Join(r.prefix, slashed)
}

var _ gazestore.AssetResolver = (*S3Resolver)(nil)
