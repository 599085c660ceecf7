package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var storageClient *s3.Client
var storageBucket string
var publicBaseURL string

// StorageConfigured reports whether the S3-compatible storage env vars are
// set. Exports stay disabled when they are not.
func StorageConfigured() bool {
	return os.Getenv("STORAGE_ENDPOINT") != "" && os.Getenv("STORAGE_BUCKET") != ""
}

func InitStorage() error {
	endpoint := os.Getenv("STORAGE_ENDPOINT")
	accessKeyID := os.Getenv("STORAGE_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("STORAGE_SECRET_ACCESS_KEY")
	storageBucket = os.Getenv("STORAGE_BUCKET")
	publicBaseURL = os.Getenv("STORAGE_PUBLIC_BASE_URL")
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("%s/%s", endpoint, storageBucket)
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
		config.WithEndpointResolver(aws.EndpointResolverFunc(
			func(service, region string) (aws.Endpoint, error) {
				return aws.Endpoint{URL: endpoint}, nil
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to load storage config: %w", err)
	}

	storageClient = s3.NewFromConfig(cfg)
	return nil
}

// UploadToBucket uploads raw bytes and returns the public URL for the key.
func UploadToBucket(key string, data []byte, contentType string) (string, error) {
	if storageClient == nil {
		return "", fmt.Errorf("object storage not initialized")
	}

	_, err := storageClient.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(storageBucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s", publicBaseURL, key), nil
}
