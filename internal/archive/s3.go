package archive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"tt-go/internal/config"
	"tt-go/internal/track"
)

// S3Archiver stores report files in an S3 bucket under an optional key
// prefix. Uploads go through the s3 transfer manager so large exports are
// streamed in parts.
type S3Archiver struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

// NewS3Archiver creates an S3-backed archiver from configuration. When the
// static credential pair is empty, the default AWS credential chain applies.
func NewS3Archiver(ctx context.Context, cfg config.ArchiveConfig) (*S3Archiver, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 archive requires s3_bucket to be set")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.S3Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3Region))
	}
	if cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Archiver{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   cfg.S3Bucket,
		prefix:   cfg.S3Prefix,
	}, nil
}

// key joins the configured prefix with a report name.
func (a *S3Archiver) key(name string) string {
	if a.prefix == "" {
		return name
	}
	return strings.TrimSuffix(a.prefix, "/") + "/" + name
}

// Put uploads a report, overwriting any previous object with the same key.
// The size argument is advisory here: S3 rejects truncated uploads itself.
func (a *S3Archiver) Put(name string, r io.Reader, size int64) error {
	_, err := a.uploader.Upload(context.Background(), &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(name)),
		Body:   r,
	})
	if err != nil {
		return fmt.Errorf("uploading report to s3: %w", err)
	}
	return nil
}

// Get downloads a report and writes it to w.
func (a *S3Archiver) Get(name string, w io.Writer) error {
	out, err := a.client.GetObject(context.Background(), &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(name)),
	})
	if err != nil {
		return fmt.Errorf("downloading report from s3: %w", err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("reading report body: %w", err)
	}
	return nil
}

// List returns the names of all stored reports under the prefix, sorted.
func (a *S3Archiver) List() ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(a.bucket)}
	if a.prefix != "" {
		input.Prefix = aws.String(strings.TrimSuffix(a.prefix, "/") + "/")
	}

	var names []string
	paginator := s3.NewListObjectsV2Paginator(a.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("listing s3 archive: %w", err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if a.prefix != "" {
				key = strings.TrimPrefix(key, strings.TrimSuffix(a.prefix, "/")+"/")
			}
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Compile-time check that S3Archiver implements track.Archiver
var _ track.Archiver = (*S3Archiver)(nil)
