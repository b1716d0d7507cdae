package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// SpacesService mirrors oversized starboard attachments to a public bucket
// so the starboard post can still link to them after the source is gone.
type SpacesService struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	root     string
}

func NewSpacesService(ctx context.Context, key, secret, region, endpoint, bucket, root string) (*SpacesService, error) {
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.digitaloceanspaces.com", region)
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load spaces config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &SpacesService{
		client:   client,
		bucket:   bucket,
		region:   region,
		endpoint: strings.TrimSuffix(endpoint, "/"),
		root:     strings.Trim(root, "/"),
	}, nil
}

func (s *SpacesService) objectKey(name string) string {
	if s.root == "" {
		return name
	}
	return s.root + "/" + name
}

// PublicURL is the virtual-hosted URL of an uploaded object.
func (s *SpacesService) PublicURL(key string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, host, key)
}

// Upload stores data under name and returns its public URL.
func (s *SpacesService) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := s.objectKey(name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
		ACL:          types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}
