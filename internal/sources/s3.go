package sources

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rjindal/segfetch/internal/utils"
)

// s3MetadataHashKey is the object user-metadata key holding the declared
// content hash (x-amz-meta-content-hash on the wire).
const s3MetadataHashKey = "content-hash"

type S3Source struct {
	bucket string
	key    string
	client *s3.Client
}

func NewS3Source(rawURL string) (*S3Source, error) {
	bucket, key, err := parseS3URL(rawURL)
	if err != nil {
		return nil, err
	}
	profile := os.Getenv("AWS_PROFILE")
	if profile == "" {
		profile = "default"
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithSharedConfigProfile(profile))
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %v", err)
	}
	return &S3Source{
		bucket: bucket,
		key:    key,
		client: s3.NewFromConfig(cfg),
	}, nil
}

func parseS3URL(rawURL string) (string, string, error) {
	trimmed := strings.TrimPrefix(rawURL, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL %q, expected s3://bucket/key", rawURL)
	}
	return parts[0], parts[1], nil
}

// Probe issues a HeadObject call. S3 always honors byte ranges.
func (s *S3Source) Probe(ctx context.Context) (*ResourceInfo, error) {
	log := utils.GetLogger("s3-probe")
	headObj, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting S3 object info: %v", err)
	}
	info := &ResourceInfo{
		Size:           aws.ToInt64(headObj.ContentLength),
		RangeSupported: true,
		Filename:       path.Base(s.key),
		ContentHash:    headObj.Metadata[s3MetadataHashKey],
	}
	log.Debug().Str("bucket", s.bucket).Str("key", s.key).Int64("size", info.Size).Msg("Probe completed")
	return info, nil
}

func (s *S3Source) FetchRange(ctx context.Context, start, end int64) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", start, end)),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting S3 object range: %v", err)
	}
	return resp.Body, nil
}

func (s *S3Source) Fetch(ctx context.Context) (io.ReadCloser, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("error getting S3 object: %v", err)
	}
	return resp.Body, nil
}
