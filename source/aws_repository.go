package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// AwsS3Repository is a struct that implements the Repository interface for
// handling a schema document stored within an S3 bucket.
type AwsS3Repository struct {
	snapshot
	Name            string     // Name of the configuration source
	BucketName      string     // Name of the S3 bucket
	ObjectName      string     // Name of the document within the S3 bucket
	Region          string     // Optional region override
	AccessKeyID     string     // Optional static credentials; the default chain is used when empty
	SecretAccessKey string     // Secret for AccessKeyID
	Client          *s3.Client // S3 client instance
	clientOnce      sync.Once  // Ensures client is initialized only once
	clientInitErr   error      // Stores error from client initialization
}

// GetName returns the name of the configuration source.
func (a *AwsS3Repository) GetName() string {
	return a.Name
}

func (a *AwsS3Repository) loadOptions() []func(*config.LoadOptions) error {
	var opts []func(*config.LoadOptions) error
	if a.Region != "" {
		opts = append(opts, config.WithRegion(a.Region))
	}
	if a.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(a.AccessKeyID, a.SecretAccessKey, "")))
	}
	return opts
}

// Refresh reads the document from the S3 bucket and replaces the current
// document if it is valid.
func (a *AwsS3Repository) Refresh() error {
	ctx := context.Background()

	// Thread-safe client initialization using sync.Once (only if client not pre-configured)
	a.clientOnce.Do(func() {
		if a.Client != nil {
			return
		}
		cfg, err := config.LoadDefaultConfig(ctx, a.loadOptions()...)
		if err != nil {
			a.clientInitErr = fmt.Errorf("failed to load AWS config: %w", err)
			return
		}
		a.Client = s3.NewFromConfig(cfg)
	})
	if a.clientInitErr != nil {
		return a.clientInitErr
	}

	result, err := a.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.BucketName),
		Key:    aws.String(a.ObjectName),
	})
	if err != nil {
		return err
	}
	defer result.Body.Close()

	fileContent, err := io.ReadAll(result.Body)
	if err != nil {
		return err
	}

	return a.store(fileContent)
}
