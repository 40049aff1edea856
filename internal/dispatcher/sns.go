// internal/dispatcher/sns.go
package dispatcher

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"sms-dispatcher/internal/common/errors"
	"sms-dispatcher/internal/common/logger"
)

// SNSService is the slice of the SNS API the simple-publish backend needs.
// Defined locally so tests can mock it.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	SetSMSAttributes(ctx context.Context, params *sns.SetSMSAttributesInput, optFns ...func(*sns.Options)) (*sns.SetSMSAttributesOutput, error)
}

// SNSBackend publishes one message per recipient directly by phone number.
type SNSBackend struct {
	client SNSService
	logger logger.Logger
}

func NewSNSBackend(client SNSService, log logger.Logger) *SNSBackend {
	return &SNSBackend{
		client: client,
		logger: log.WithFields(map[string]interface{}{"backend": "sns"}),
	}
}

func (b *SNSBackend) Name() string { return "sns" }

// Send issues one publish call keyed by recipient and body. The account-level
// default SMS type is aligned to the request kind first; a failure there is
// logged but does not block the publish, since the attribute only changes the
// delivery class, not deliverability.
func (b *SNSBackend) Send(ctx context.Context, req SendRequest) (*DeliveryResult, error) {
	kind, err := ParseKind(string(req.Kind))
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	if _, err := b.client.SetSMSAttributes(ctx, &sns.SetSMSAttributesInput{
		Attributes: map[string]string{
			"DefaultSMSType": smsTypeAttribute(kind),
		},
	}); err != nil {
		b.logger.Warn("set SMS attributes failed", map[string]interface{}{
			"error": err,
		})
	}

	out, err := b.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(req.Recipient),
		Message:     aws.String(req.Body),
	})
	if err != nil {
		return nil, errors.NewDispatchError(b.Name(), err)
	}

	return &DeliveryResult{
		StatusCode:    200,
		StatusMessage: "OK",
		MessageID:     aws.ToString(out.MessageId),
	}, nil
}

func smsTypeAttribute(kind MessageKind) string {
	if kind == KindPromotional {
		return "Promotional"
	}
	return "Transactional"
}
