// Package storage stores location images in S3-compatible object storage and
// hands back publicly resolvable URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MaxImageBytes is the upload cap enforced before any data reaches the
// bucket.
const MaxImageBytes = 1024 * 1024

// ErrTooLarge is returned when a caller offers a file above MaxImageBytes.
var ErrTooLarge = fmt.Errorf("image exceeds %d bytes", MaxImageBytes)

// ImageStore is a client for the image bucket.
type ImageStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

// Options configures the connection to the object storage endpoint.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicBaseURL overrides the URL prefix of returned links, for setups
	// where the bucket is served through a CDN or reverse proxy.
	PublicBaseURL string
}

// NewImageStore connects to the storage endpoint and makes sure the image
// bucket exists.
func NewImageStore(ctx context.Context, opts Options) (*ImageStore, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("missing one or more required storage settings: endpoint, access key, secret key")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	s := &ImageStore{client: client, bucket: opts.Bucket, publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/")}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	slog.Info("connected to object storage", "endpoint", opts.Endpoint, "bucket", opts.Bucket)
	return s, nil
}

func (s *ImageStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return err
		}
	}
	return nil
}

// objectKey builds the canonical key for an uploaded image. Filenames only
// contribute their extension; the name itself is replaced by a timestamp so
// uploads never collide or overwrite.
func objectKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 8 {
		ext = ext[:8]
	}
	return fmt.Sprintf("public/%d%s", time.Now().UnixNano(), ext)
}

// Upload stores one image and returns its public URL. Size is checked against
// MaxImageBytes before any bytes are sent.
func (s *ImageStore) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	if size > MaxImageBytes {
		return "", ErrTooLarge
	}

	key := objectKey(filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "max-age=3600",
	})
	if err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *ImageStore) publicURL(key string) string {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
	}
	scheme := "http"
	if s.client.EndpointURL().Scheme == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, key)
}
