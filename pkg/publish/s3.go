package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/joho/godotenv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// UploadTimeout bounds a single object upload
const UploadTimeout = 30 * time.Second

// ErrNotConfigured is returned when no bucket is configured
var ErrNotConfigured = errors.New("publish: S3 bucket not configured")

// Config holds the S3 connection settings
type Config struct {
	Endpoint  string // Custom endpoint for S3-compatible stores; empty uses AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Prefix    string // Key prefix for uploaded renders
	ACL       string // Canned ACL such as public-read; empty leaves the bucket default
}

// Enabled reports whether uploads can be attempted
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// LoadConfig reads S3_* settings from the environment, falling back to the
// given .env file. A missing .env file is not an error.
func LoadConfig(envFile string) (Config, error) {
	fileEnv := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			fileEnv, err = godotenv.Read(envFile)
			if err != nil {
				return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	lookup := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		if value, ok := fileEnv[key]; ok && value != "" {
			return value
		}
		return fallback
	}

	return Config{
		Endpoint:  lookup("S3_ENDPOINT", ""),
		Region:    lookup("S3_REGION", "us-east-1"),
		Bucket:    lookup("S3_BUCKET", ""),
		AccessKey: lookup("S3_ACCESS_KEY", ""),
		SecretKey: lookup("S3_SECRET_KEY", ""),
		Prefix:    lookup("S3_PREFIX", "renders"),
		ACL:       lookup("S3_ACL", ""),
	}, nil
}

// S3Publisher uploads encoded renders to a bucket
type S3Publisher struct {
	client s3iface.S3API
	bucket string
	prefix string
	acl    string
	logger core.Logger
}

// NewS3Publisher creates a publisher with its own AWS session
func NewS3Publisher(cfg Config, logger core.Logger) (*S3Publisher, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	awsConfig := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	publisher := NewS3PublisherWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix, logger)
	publisher.acl = cfg.ACL
	return publisher, nil
}

// NewS3PublisherWithClient creates a publisher around an existing client
func NewS3PublisherWithClient(client s3iface.S3API, bucket, prefix string, logger core.Logger) *S3Publisher {
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Publish uploads data under the publisher's prefix and returns the object key
func (p *S3Publisher) Publish(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, UploadTimeout)
	defer cancel()

	key := path.Join(p.prefix, name)
	size := int64(len(data))

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}
	if p.acl != "" {
		input.ACL = aws.String(p.acl)
	}

	if _, err := p.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if p.logger != nil {
		p.logger.Printf("Uploaded s3://%s/%s (%d bytes)\n", p.bucket, key, size)
	}
	return key, nil
}

// ObjectName builds a timestamped object name for a render of sceneID
func ObjectName(sceneID string, at time.Time, extension string) string {
	id := strings.NewReplacer(":", "-", "/", "-", " ", "-").Replace(sceneID)
	return fmt.Sprintf("%s-%s%s", id, at.UTC().Format("20060102-150405"), extension)
}
