// internal/common/aws/sns.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sns"

	"sms-dispatcher/internal/common/config"
)

type SNSClient struct {
	client *sns.Client
}

func NewSNSClient(ctx context.Context, cfg config.AWSConfig) (*SNSClient, error) {
	awsCfg, err := LoadConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &SNSClient{client: sns.NewFromConfig(awsCfg)}, nil
}

func (s *SNSClient) Publish(ctx context.Context, input *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return s.client.Publish(ctx, input, optFns...)
}

func (s *SNSClient) SetSMSAttributes(ctx context.Context, input *sns.SetSMSAttributesInput, optFns ...func(*sns.Options)) (*sns.SetSMSAttributesOutput, error) {
	return s.client.SetSMSAttributes(ctx, input, optFns...)
}
