package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/scholarhub-org/scholarhub-api/pkg/config"
)

// S3Store persists record images in an S3 bucket and addresses them by
// their public object URL.
type S3Store struct {
	client *s3.S3
	bucket string
	region string
	prefix string
	base   string
}

// NewS3Store builds an S3 client from configuration. A custom endpoint is
// honored for S3-compatible stores used in development.
func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket name is required")
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		base = fmt.Sprintf("%s/%s", strings.TrimRight(cfg.Endpoint, "/"), cfg.Bucket)
	}

	return &S3Store{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: strings.Trim(cfg.KeyPrefix, "/"),
		base:   base,
	}, nil
}

// Upload stores the object and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, filename, contentType string, body io.ReadSeeker) (string, error) {
	key := s.KeyFor(filename)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if _, err := s.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", s.base, key), nil
}

// Delete removes the object referenced by a public URL previously returned
// from Upload. Unknown URLs are rejected before any network call.
func (s *S3Store) Delete(ctx context.Context, objectURL string) error {
	key, ok := s.KeyFromURL(objectURL)
	if !ok {
		return fmt.Errorf("url %q does not belong to bucket %s", objectURL, s.bucket)
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// KeyFor derives a collision-resistant object key: prefix, millisecond
// timestamp, then the sanitized original filename.
func (s *S3Store) KeyFor(filename string) string {
	name := SanitizeFilename(filename)
	key := fmt.Sprintf("%d_%s", time.Now().UnixMilli(), name)
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}
	return key
}

// KeyFromURL extracts the object key from a public URL for this store.
func (s *S3Store) KeyFromURL(objectURL string) (string, bool) {
	if !strings.HasPrefix(objectURL, s.base+"/") {
		return "", false
	}
	key := strings.TrimPrefix(objectURL, s.base+"/")
	if key == "" {
		return "", false
	}
	return key, true
}

// SanitizeFilename strips path components and characters that are unsafe in
// object keys, falling back to "file" for empty input.
func SanitizeFilename(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.TrimSpace(name)

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	if cleaned == "" {
		return "file"
	}
	return url.PathEscape(cleaned)
}
