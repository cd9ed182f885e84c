package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/oops"
)

// S3Store talks to any S3-compatible object storage, including the local fake
// started by the devstorage command.
type S3Store struct {
	client        *s3.Client
	presign       *s3.PresignClient
	bucket        string
	publicBaseUrl string
}

var _ Store = &S3Store{}

func NewS3Store(cfg config.StorageConfig) *S3Store {
	awscfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKey,
				cfg.SecretKey,
				"",
			),
		),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL: cfg.Endpoint,
				}, nil
			},
		)),
	)
	if err != nil {
		panic(oops.New(err, "failed to load object storage config"))
	}

	client := s3.NewFromConfig(awscfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &S3Store{
		client:        client,
		presign:       s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
		publicBaseUrl: strings.TrimSuffix(cfg.PublicBaseUrl, "/"),
	}
}

func (s *S3Store) Put(ctx context.Context, key string, contentType string, data []byte) error {
	upload := func() error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      &s.bucket,
			Key:         &key,
			Body:        bytes.NewReader(data),
			ContentType: &contentType,
		})
		return err
	}

	err := upload()
	if err != nil {
		// The bucket may not exist yet on the first upload after a wipe of
		// the dev fake. Create it and try once more.
		var apiError smithy.APIError
		if errors.As(err, &apiError) && apiError.ErrorCode() == "NoSuchBucket" {
			_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
				Bucket: &s.bucket,
			})
			if err != nil {
				return oops.New(err, "failed to create storage bucket")
			}

			err = upload()
			if err != nil {
				return oops.New(err, "failed to upload object")
			}
		} else {
			return oops.New(err, "failed to upload object")
		}
	}

	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, oops.New(err, "failed to fetch object")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read object body")
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return oops.New(err, "failed to delete object")
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s", s.publicBaseUrl, key)
}

func (s *S3Store) SignedURL(ctx context.Context, key string, lifetime time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: &s.bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(lifetime),
	)
	if err != nil {
		return "", oops.New(err, "failed to presign object url")
	}
	return req.URL, nil
}
