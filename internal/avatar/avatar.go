// Package avatar uploads profile pictures to S3-compatible storage and
// points the profile at the uploaded file.
package avatar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Paintersrp/dash/internal/config"
)

// MaxSize is the largest file accepted, matching the dashboard's limit.
const MaxSize = 5 << 20

var (
	ErrNotConfigured   = errors.New("avatar storage is not configured: set avatar.bucket")
	ErrUnsupportedType = errors.New("avatar must be a png, jpeg, gif or webp image")
	ErrTooLarge        = errors.New("avatar must be 5MB or smaller")
)

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Uploader stores an object and returns the URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// AvatarSetter is the profile call made after a successful upload.
type AvatarSetter interface {
	UpdateAvatar(ctx context.Context, avatarURL string) error
}

type S3Uploader struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
}

// NewS3Uploader builds an uploader from the avatar section of the config.
// A custom endpoint switches to path-style addressing for MinIO and R2.
func NewS3Uploader(ctx context.Context, cfg config.AvatarConfig) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		uploader:  manager.NewUploader(client),
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	out, err := u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	if u.publicURL != "" {
		return u.publicURL + "/" + key, nil
	}
	return out.Location, nil
}

// Key names the object for a user's avatar. Every upload gets a fresh name
// so cached copies of the old picture are not served.
func Key(prefix, userID, filename string) string {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	return path.Join(strings.Trim(prefix, "/"), userID, name)
}

// ContentType validates the extension of filename.
func ContentType(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	ct, ok := contentTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Base(filename))
	}
	return ct, nil
}

// SetFromFile uploads the image at filename and stores its URL on the
// profile. It returns the URL.
func SetFromFile(ctx context.Context, up Uploader, profile AvatarSetter, prefix, userID, filename string) (string, error) {
	ct, err := ContentType(filename)
	if err != nil {
		return "", err
	}

	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() > MaxSize {
		return "", ErrTooLarge
	}

	url, err := up.Upload(ctx, Key(prefix, userID, filename), ct, f)
	if err != nil {
		return "", err
	}
	if err := profile.UpdateAvatar(ctx, url); err != nil {
		return "", fmt.Errorf("save avatar url: %w", err)
	}
	return url, nil
}
