package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Config struct {
	Endpoint        string
	Bucket          string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// S3 uploads to a bucket and returns URLs below PublicEndpoint.
type S3 struct {
	Client         PutObjectAPI
	Bucket         string
	PublicEndpoint *url.URL
}

func NewS3(client PutObjectAPI, bucket, publicBaseURL string) (*S3, error) {
	publicEndpoint, err := url.Parse(publicBaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse public base url: %w", err)
	}
	return &S3{Client: client, Bucket: bucket, PublicEndpoint: publicEndpoint}, nil
}

// NewS3FromConfig builds an S3 client with static credentials, for S3 compatible endpoints.
func NewS3FromConfig(ctx context.Context, cfg S3Config) (*S3, error) {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
		awsConfig.WithRegion(cfg.Region),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, awsConfig.WithBaseEndpoint(cfg.Endpoint))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load aws config: %w", err)
	}
	return NewS3(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.PublicBaseURL)
}

func (s *S3) Save(ctx context.Context, dir, name, contentType string, content []byte) (string, error) {
	key := objectKey(dir, name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload to s3: %w", err)
	}
	uri := *s.PublicEndpoint
	uri.Path = "/" + key
	return uri.String(), nil
}
