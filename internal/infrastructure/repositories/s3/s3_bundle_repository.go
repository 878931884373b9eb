package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	"github.com/rios0rios0/cdlist/internal/domain/repositories"
)

const (
	providerName = "s3"
	scheme       = "s3"
	contentType  = "application/json"
)

// S3BundleRepository implements repositories.BundleRepository on an S3 compatible
// bucket. A bundle is every object under the "{id}/" prefix.
type S3BundleRepository struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

// NewS3BundleRepository creates the store from bundles.s3.
func NewS3BundleRepository(settings *entities.Settings) (repositories.BundleRepository, error) {
	cfg := settings.Bundles.S3
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey), ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	return &S3BundleRepository{client: client, bucketName: bucket, region: cfg.Region}, nil
}

func (s *S3BundleRepository) Name() string { return providerName }

// ParseReference extracts the id of s3://{bucket}/{id}. References to other buckets
// are not claimed.
func (s *S3BundleRepository) ParseReference(rawURL string) (string, bool, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Scheme != scheme || parsed.Host != s.bucketName {
		return "", false, nil
	}
	id := strings.Trim(parsed.Path, "/")
	if id == "" || strings.Contains(id, "/") {
		return "", true, fmt.Errorf("s3 url %s: %w", rawURL, entities.ErrMalformedBundleURL)
	}
	return id, true, nil
}

// Fetch returns the objects under the bundle prefix keyed by their base name.
func (s *S3BundleRepository) Fetch(ctx context.Context, id string) (map[string]string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	prefix := strings.TrimSuffix(id, "/") + "/"
	files := make(map[string]string)
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.Key == "" {
			continue
		}
		data, err := s.get(ctx, obj.Key)
		if err != nil {
			return nil, err
		}
		files[path.Base(obj.Key)] = string(data)
	}
	logger.Debugf("Bundle s3://%s/%s has %d objects", s.bucketName, id, len(files))
	return files, nil
}

// Create uploads the content under a fresh id and returns its s3:// reference.
func (s *S3BundleRepository) Create(ctx context.Context, name, content string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", s.classify(err))
	}

	id := uuid.NewString()
	key := id + "/" + path.Base(strings.TrimSpace(name))
	data := []byte(content)
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload bundle: %w", s.classify(err))
	}
	return fmt.Sprintf("%s://%s/%s", scheme, s.bucketName, id), nil
}

func (s *S3BundleRepository) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

func (s *S3BundleRepository) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// classify marks access denials as permission failures.
func (s *S3BundleRepository) classify(err error) error {
	errResp := minio.ToErrorResponse(err)
	if errResp.StatusCode == http.StatusForbidden || errResp.Code == "AccessDenied" {
		return fmt.Errorf("%w: %w", entities.ErrBundlePermission, err)
	}
	return err
}
