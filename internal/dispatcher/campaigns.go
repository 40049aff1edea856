// internal/dispatcher/campaigns.go
package dispatcher

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"

	"sms-dispatcher/internal/common/errors"
)

// Segment and campaign operations are single forwarding calls: arguments in,
// backend response out. Their lifecycle lives inside Pinpoint.

// SegmentParams names a recipient group. Attributes, when present, restrict
// the segment to endpoints carrying the given user-attribute values.
type SegmentParams struct {
	Name       string
	Attributes map[string][]string
}

type Segment struct {
	ID   string
	Name string
}

// CampaignParams schedules a recurring send against a segment. StartTime is
// either "IMMEDIATE" or an ISO 8601 timestamp; Frequency is ONCE, HOURLY,
// DAILY, WEEKLY or MONTHLY.
type CampaignParams struct {
	Name      string
	SegmentID string
	Body      string
	Kind      MessageKind
	StartTime string
	Frequency string
}

type Campaign struct {
	ID        string
	Name      string
	SegmentID string
	State     string
}

// CampaignActivity is one reported activity metric entry.
type CampaignActivity struct {
	ID                  string
	State               string
	Result              string
	Start               string
	End                 string
	SuccessfulEndpoints int32
	TotalEndpoints      int32
}

func (b *PinpointBackend) CreateSegment(ctx context.Context, params SegmentParams) (*Segment, error) {
	if err := b.requireApplicationID(); err != nil {
		return nil, err
	}

	write := &types.WriteSegmentRequest{
		Name: aws.String(params.Name),
	}
	if len(params.Attributes) > 0 {
		attrs := make(map[string]types.AttributeDimension, len(params.Attributes))
		for key, values := range params.Attributes {
			attrs[key] = types.AttributeDimension{
				AttributeType: types.AttributeTypeInclusive,
				Values:        values,
			}
		}
		write.Dimensions = &types.SegmentDimensions{Attributes: attrs}
	}

	out, err := b.client.CreateSegment(ctx, &pinpoint.CreateSegmentInput{
		ApplicationId:       aws.String(b.applicationID),
		WriteSegmentRequest: write,
	})
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	if out.SegmentResponse == nil {
		return nil, errors.NewDispatchError(b.Name(), fmt.Errorf("empty segment response"))
	}

	return &Segment{
		ID:   aws.ToString(out.SegmentResponse.Id),
		Name: aws.ToString(out.SegmentResponse.Name),
	}, nil
}

func (b *PinpointBackend) CreateCampaign(ctx context.Context, params CampaignParams) (*Campaign, error) {
	if err := b.requireApplicationID(); err != nil {
		return nil, err
	}

	kind, err := ParseKind(string(params.Kind))
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	startTime := params.StartTime
	if startTime == "" {
		startTime = "IMMEDIATE"
	}
	frequency := types.FrequencyOnce
	if params.Frequency != "" {
		frequency = types.Frequency(strings.ToUpper(params.Frequency))
	}

	out, err := b.client.CreateCampaign(ctx, &pinpoint.CreateCampaignInput{
		ApplicationId: aws.String(b.applicationID),
		WriteCampaignRequest: &types.WriteCampaignRequest{
			Name:      aws.String(params.Name),
			SegmentId: aws.String(params.SegmentID),
			Schedule: &types.Schedule{
				StartTime: aws.String(startTime),
				Frequency: frequency,
			},
			MessageConfiguration: &types.MessageConfiguration{
				SMSMessage: &types.CampaignSmsMessage{
					Body:        aws.String(params.Body),
					MessageType: pinpointMessageType(kind),
				},
			},
		},
	})
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	if out.CampaignResponse == nil {
		return nil, errors.NewDispatchError(b.Name(), fmt.Errorf("empty campaign response"))
	}

	campaign := &Campaign{
		ID:        aws.ToString(out.CampaignResponse.Id),
		Name:      aws.ToString(out.CampaignResponse.Name),
		SegmentID: aws.ToString(out.CampaignResponse.SegmentId),
	}
	if out.CampaignResponse.State != nil {
		campaign.State = string(out.CampaignResponse.State.CampaignStatus)
	}
	return campaign, nil
}

func (b *PinpointBackend) GetCampaignActivities(ctx context.Context, campaignID string) ([]CampaignActivity, error) {
	if err := b.requireApplicationID(); err != nil {
		return nil, err
	}

	out, err := b.client.GetCampaignActivities(ctx, &pinpoint.GetCampaignActivitiesInput{
		ApplicationId: aws.String(b.applicationID),
		CampaignId:    aws.String(campaignID),
	})
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	if out.ActivitiesResponse == nil {
		return nil, errors.NewDispatchError(b.Name(), fmt.Errorf("empty activities response"))
	}

	activities := make([]CampaignActivity, 0, len(out.ActivitiesResponse.Item))
	for _, item := range out.ActivitiesResponse.Item {
		activities = append(activities, CampaignActivity{
			ID:                  aws.ToString(item.Id),
			State:               aws.ToString(item.State),
			Result:              aws.ToString(item.Result),
			Start:               aws.ToString(item.Start),
			End:                 aws.ToString(item.End),
			SuccessfulEndpoints: aws.ToInt32(item.SuccessfulEndpointCount),
			TotalEndpoints:      aws.ToInt32(item.TotalEndpointCount),
		})
	}
	return activities, nil
}
