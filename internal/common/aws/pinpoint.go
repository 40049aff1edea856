// internal/common/aws/pinpoint.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/pinpoint"

	"sms-dispatcher/internal/common/config"
)

type PinpointClient struct {
	client *pinpoint.Client
}

func NewPinpointClient(ctx context.Context, cfg config.AWSConfig) (*PinpointClient, error) {
	awsCfg, err := LoadConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &PinpointClient{client: pinpoint.NewFromConfig(awsCfg)}, nil
}

func (p *PinpointClient) SendMessages(ctx context.Context, input *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error) {
	return p.client.SendMessages(ctx, input, optFns...)
}

func (p *PinpointClient) CreateSegment(ctx context.Context, input *pinpoint.CreateSegmentInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateSegmentOutput, error) {
	return p.client.CreateSegment(ctx, input, optFns...)
}

func (p *PinpointClient) CreateCampaign(ctx context.Context, input *pinpoint.CreateCampaignInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateCampaignOutput, error) {
	return p.client.CreateCampaign(ctx, input, optFns...)
}

func (p *PinpointClient) GetCampaignActivities(ctx context.Context, input *pinpoint.GetCampaignActivitiesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.GetCampaignActivitiesOutput, error) {
	return p.client.GetCampaignActivities(ctx, input, optFns...)
}
