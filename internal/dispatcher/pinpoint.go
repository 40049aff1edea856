// internal/dispatcher/pinpoint.go
package dispatcher

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"

	"sms-dispatcher/internal/common/errors"
	"sms-dispatcher/internal/common/logger"
)

// PinpointService is the slice of the Pinpoint API the targeted-messaging
// backend needs. Defined locally so tests can mock it.
type PinpointService interface {
	SendMessages(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error)
	CreateSegment(ctx context.Context, params *pinpoint.CreateSegmentInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateSegmentOutput, error)
	CreateCampaign(ctx context.Context, params *pinpoint.CreateCampaignInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateCampaignOutput, error)
	GetCampaignActivities(ctx context.Context, params *pinpoint.GetCampaignActivitiesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.GetCampaignActivitiesOutput, error)
}

// PinpointBackend addresses messages to recipients within a Pinpoint
// application (project). It also exposes the segment and campaign operations
// that only this variant supports.
type PinpointBackend struct {
	client        PinpointService
	applicationID string
	logger        logger.Logger
}

// NewPinpointBackend binds the backend to one application. applicationID may
// be empty here; it is checked before every operation so that a missing
// project id surfaces as a configuration error, not a backend fault.
func NewPinpointBackend(client PinpointService, applicationID string, log logger.Logger) *PinpointBackend {
	return &PinpointBackend{
		client:        client,
		applicationID: applicationID,
		logger:        log.WithFields(map[string]interface{}{"backend": "pinpoint"}),
	}
}

func (b *PinpointBackend) Name() string { return "pinpoint" }

func (b *PinpointBackend) requireApplicationID() error {
	if b.applicationID == "" {
		return errors.NewConfigurationError(
			"Pinpoint project ID is required; set PINPOINT_PROJECT_ID or aws.pinpoint.project_id")
	}
	return nil
}

// Send issues one SendMessages call addressed to the recipient over the SMS
// channel. The per-recipient status the backend reports is the outcome; a
// non-2xx entry fails the send even when the API call itself succeeded.
func (b *PinpointBackend) Send(ctx context.Context, req SendRequest) (*DeliveryResult, error) {
	if err := b.requireApplicationID(); err != nil {
		return nil, err
	}

	kind, err := ParseKind(string(req.Kind))
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	out, err := b.client.SendMessages(ctx, &pinpoint.SendMessagesInput{
		ApplicationId: aws.String(b.applicationID),
		MessageRequest: &types.MessageRequest{
			Addresses: map[string]types.AddressConfiguration{
				req.Recipient: {ChannelType: types.ChannelTypeSms},
			},
			MessageConfiguration: &types.DirectMessageConfiguration{
				SMSMessage: &types.SMSMessage{
					Body:        aws.String(req.Body),
					MessageType: pinpointMessageType(kind),
				},
			},
		},
	})
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	if out.MessageResponse == nil {
		return nil, errors.NewDispatchError(b.Name(), fmt.Errorf("empty message response"))
	}

	result, ok := out.MessageResponse.Result[req.Recipient]
	if !ok {
		return nil, errors.NewDispatchError(b.Name(),
			fmt.Errorf("no result for recipient %s", req.Recipient))
	}

	statusCode := int(aws.ToInt32(result.StatusCode))
	statusMessage := aws.ToString(result.StatusMessage)
	if statusCode < 200 || statusCode > 299 {
		return nil, errors.NewDispatchStatusError(b.Name(), statusCode, statusMessage)
	}

	return &DeliveryResult{
		StatusCode:    statusCode,
		StatusMessage: statusMessage,
		MessageID:     aws.ToString(result.MessageId),
	}, nil
}

func pinpointMessageType(kind MessageKind) types.MessageType {
	if kind == KindPromotional {
		return types.MessageTypePromotional
	}
	return types.MessageTypeTransactional
}
