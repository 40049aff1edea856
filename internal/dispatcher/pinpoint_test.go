// internal/dispatcher/pinpoint_test.go
package dispatcher

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sms-dispatcher/internal/common/errors"
	"sms-dispatcher/internal/common/logger"
)

const testProjectID = "8367e8209e234a2aa6b772f98e41557d"

type MockPinpointService struct {
	SendMessagesFunc          func(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error)
	CreateSegmentFunc         func(ctx context.Context, params *pinpoint.CreateSegmentInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateSegmentOutput, error)
	CreateCampaignFunc        func(ctx context.Context, params *pinpoint.CreateCampaignInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateCampaignOutput, error)
	GetCampaignActivitiesFunc func(ctx context.Context, params *pinpoint.GetCampaignActivitiesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.GetCampaignActivitiesOutput, error)

	sendCalls int
}

func (m *MockPinpointService) SendMessages(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error) {
	m.sendCalls++
	return m.SendMessagesFunc(ctx, params, optFns...)
}

func (m *MockPinpointService) CreateSegment(ctx context.Context, params *pinpoint.CreateSegmentInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateSegmentOutput, error) {
	return m.CreateSegmentFunc(ctx, params, optFns...)
}

func (m *MockPinpointService) CreateCampaign(ctx context.Context, params *pinpoint.CreateCampaignInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateCampaignOutput, error) {
	return m.CreateCampaignFunc(ctx, params, optFns...)
}

func (m *MockPinpointService) GetCampaignActivities(ctx context.Context, params *pinpoint.GetCampaignActivitiesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.GetCampaignActivitiesOutput, error) {
	return m.GetCampaignActivitiesFunc(ctx, params, optFns...)
}

func sendMessagesResult(recipient string, statusCode int32, statusMessage, messageID string) *pinpoint.SendMessagesOutput {
	return &pinpoint.SendMessagesOutput{
		MessageResponse: &types.MessageResponse{
			Result: map[string]types.MessageResult{
				recipient: {
					StatusCode:    aws.Int32(statusCode),
					StatusMessage: aws.String(statusMessage),
					MessageId:     aws.String(messageID),
				},
			},
		},
	}
}

func TestPinpointBackend_Send_Success(t *testing.T) {
	mock := &MockPinpointService{
		SendMessagesFunc: func(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error) {
			assert.Equal(t, testProjectID, *params.ApplicationId)

			addr, ok := params.MessageRequest.Addresses["+12363005078"]
			require.True(t, ok)
			assert.Equal(t, types.ChannelTypeSms, addr.ChannelType)

			msg := params.MessageRequest.MessageConfiguration.SMSMessage
			assert.Equal(t, "Hello", *msg.Body)
			assert.Equal(t, types.MessageTypeTransactional, msg.MessageType)

			return sendMessagesResult("+12363005078", 200, "OK", "pp-msg-0001"), nil
		},
	}

	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())
	res, err := backend.Send(context.Background(), SendRequest{
		Recipient: "+12363005078",
		Body:      "Hello",
		Kind:      KindTransactional,
	})

	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, "OK", res.StatusMessage)
	assert.Equal(t, "pp-msg-0001", res.MessageID)
}

func TestPinpointBackend_Send_MissingProjectID(t *testing.T) {
	// A missing application id must fail before any network call.
	mock := &MockPinpointService{
		SendMessagesFunc: func(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error) {
			t.Fatal("SendMessages must not be called without a project id")
			return nil, nil
		},
	}

	backend := NewPinpointBackend(mock, "", logger.NewNoOpLogger())
	_, err := backend.Send(context.Background(), SendRequest{Recipient: "+12363005078", Body: "Hello"})

	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
	assert.Equal(t, 0, mock.sendCalls)
}

func TestPinpointBackend_Send_PerRecipientFailure(t *testing.T) {
	mock := &MockPinpointService{
		SendMessagesFunc: func(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error) {
			return sendMessagesResult("+12363005078", 400, "Invalid phone number", ""), nil
		},
	}

	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())
	_, err := backend.Send(context.Background(), SendRequest{Recipient: "+12363005078", Body: "Hello"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDispatchFailed))

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Contains(t, stdErr.Details, "Invalid phone number")
}

func TestPinpointBackend_Send_APIFaultPreserved(t *testing.T) {
	mock := &MockPinpointService{
		SendMessagesFunc: func(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error) {
			return nil, stderrors.New("NotFoundException: application not found")
		},
	}

	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())
	_, err := backend.Send(context.Background(), SendRequest{Recipient: "+12363005078", Body: "Hello"})

	require.Error(t, err)
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Contains(t, stdErr.Details, "NotFoundException")
}

func TestPinpointBackend_Send_PromotionalMessageType(t *testing.T) {
	mock := &MockPinpointService{
		SendMessagesFunc: func(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error) {
			msg := params.MessageRequest.MessageConfiguration.SMSMessage
			assert.Equal(t, types.MessageTypePromotional, msg.MessageType)
			return sendMessagesResult("+12363005078", 200, "OK", "pp-msg-0002"), nil
		},
	}

	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())
	_, err := backend.Send(context.Background(), SendRequest{
		Recipient: "+12363005078",
		Body:      "Sale!",
		Kind:      KindPromotional,
	})
	require.NoError(t, err)
}

func TestPinpointBackend_CreateSegment(t *testing.T) {
	mock := &MockPinpointService{
		CreateSegmentFunc: func(ctx context.Context, params *pinpoint.CreateSegmentInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateSegmentOutput, error) {
			assert.Equal(t, testProjectID, *params.ApplicationId)
			assert.Equal(t, "beta-testers", *params.WriteSegmentRequest.Name)

			dim := params.WriteSegmentRequest.Dimensions.Attributes["Plan"]
			assert.Equal(t, types.AttributeTypeInclusive, dim.AttributeType)
			assert.Equal(t, []string{"beta"}, dim.Values)

			return &pinpoint.CreateSegmentOutput{
				SegmentResponse: &types.SegmentResponse{
					Id:   aws.String("seg-001"),
					Name: aws.String("beta-testers"),
				},
			}, nil
		},
	}

	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())
	seg, err := backend.CreateSegment(context.Background(), SegmentParams{
		Name:       "beta-testers",
		Attributes: map[string][]string{"Plan": {"beta"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "seg-001", seg.ID)
	assert.Equal(t, "beta-testers", seg.Name)
}

func TestPinpointBackend_CreateSegment_MissingProjectID(t *testing.T) {
	backend := NewPinpointBackend(&MockPinpointService{}, "", logger.NewNoOpLogger())
	_, err := backend.CreateSegment(context.Background(), SegmentParams{Name: "beta-testers"})

	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestPinpointBackend_CreateCampaign(t *testing.T) {
	mock := &MockPinpointService{
		CreateCampaignFunc: func(ctx context.Context, params *pinpoint.CreateCampaignInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateCampaignOutput, error) {
			write := params.WriteCampaignRequest
			assert.Equal(t, "weekly-digest", *write.Name)
			assert.Equal(t, "seg-001", *write.SegmentId)
			assert.Equal(t, "IMMEDIATE", *write.Schedule.StartTime)
			assert.Equal(t, types.FrequencyWeekly, write.Schedule.Frequency)
			assert.Equal(t, types.MessageTypePromotional, write.MessageConfiguration.SMSMessage.MessageType)

			return &pinpoint.CreateCampaignOutput{
				CampaignResponse: &types.CampaignResponse{
					Id:        aws.String("cmp-001"),
					Name:      aws.String("weekly-digest"),
					SegmentId: aws.String("seg-001"),
					State:     &types.CampaignState{CampaignStatus: types.CampaignStatusScheduled},
				},
			}, nil
		},
	}

	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())
	campaign, err := backend.CreateCampaign(context.Background(), CampaignParams{
		Name:      "weekly-digest",
		SegmentID: "seg-001",
		Body:      "This week in review",
		Kind:      KindPromotional,
		Frequency: "weekly",
	})

	require.NoError(t, err)
	assert.Equal(t, "cmp-001", campaign.ID)
	assert.Equal(t, "seg-001", campaign.SegmentID)
	assert.Equal(t, string(types.CampaignStatusScheduled), campaign.State)
}

func TestPinpointBackend_EmptyResponseBodies(t *testing.T) {
	// A nil response body from the SDK must surface as a dispatch error, not
	// a panic.
	mock := &MockPinpointService{
		CreateSegmentFunc: func(ctx context.Context, params *pinpoint.CreateSegmentInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateSegmentOutput, error) {
			return &pinpoint.CreateSegmentOutput{}, nil
		},
		CreateCampaignFunc: func(ctx context.Context, params *pinpoint.CreateCampaignInput, optFns ...func(*pinpoint.Options)) (*pinpoint.CreateCampaignOutput, error) {
			return &pinpoint.CreateCampaignOutput{}, nil
		},
		GetCampaignActivitiesFunc: func(ctx context.Context, params *pinpoint.GetCampaignActivitiesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.GetCampaignActivitiesOutput, error) {
			return &pinpoint.GetCampaignActivitiesOutput{}, nil
		},
	}
	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())

	_, err := backend.CreateSegment(context.Background(), SegmentParams{Name: "beta-testers"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDispatchFailed))

	_, err = backend.CreateCampaign(context.Background(), CampaignParams{Name: "weekly-digest", SegmentID: "seg-001", Body: "x"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDispatchFailed))

	_, err = backend.GetCampaignActivities(context.Background(), "cmp-001")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDispatchFailed))
}

func TestPinpointBackend_GetCampaignActivities(t *testing.T) {
	mock := &MockPinpointService{
		GetCampaignActivitiesFunc: func(ctx context.Context, params *pinpoint.GetCampaignActivitiesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.GetCampaignActivitiesOutput, error) {
			assert.Equal(t, "cmp-001", *params.CampaignId)
			return &pinpoint.GetCampaignActivitiesOutput{
				ActivitiesResponse: &types.ActivitiesResponse{
					Item: []types.ActivityResponse{
						{
							Id:                      aws.String("act-001"),
							State:                   aws.String("COMPLETED"),
							Result:                  aws.String("SUCCESSFUL"),
							SuccessfulEndpointCount: aws.Int32(42),
							TotalEndpointCount:      aws.Int32(45),
						},
					},
				},
			}, nil
		},
	}

	backend := NewPinpointBackend(mock, testProjectID, logger.NewNoOpLogger())
	activities, err := backend.GetCampaignActivities(context.Background(), "cmp-001")

	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "act-001", activities[0].ID)
	assert.Equal(t, "COMPLETED", activities[0].State)
	assert.Equal(t, int32(42), activities[0].SuccessfulEndpoints)
	assert.Equal(t, int32(45), activities[0].TotalEndpoints)
}
