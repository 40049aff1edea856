// internal/common/aws/client.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"sms-dispatcher/internal/common/config"
)

// LoadConfig builds the SDK configuration from resolved credentials. When the
// access key pair is present it is used as a static provider; otherwise the
// SDK default chain applies (shared profile, instance role).
func LoadConfig(ctx context.Context, cfg config.AWSConfig) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
