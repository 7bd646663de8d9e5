package messaging

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/apperrors"
)

// SNSAPI is the SNS surface the gateway uses, kept narrow for mocking.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSGateway delivers SMS and WhatsApp collection messages via SNS publish.
type SNSGateway struct {
	client   SNSAPI
	senderID string
}

func NewSNSGateway(ctx context.Context, region, senderID string) (*SNSGateway, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSGateway{client: sns.NewFromConfig(cfg), senderID: senderID}, nil
}

// NewSNSGatewayWithClient wires a pre-built client, used in tests.
func NewSNSGatewayWithClient(client SNSAPI, senderID string) *SNSGateway {
	return &SNSGateway{client: client, senderID: senderID}
}

func (g *SNSGateway) Send(ctx context.Context, recipient, text string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(recipient),
		Message:     aws.String(text),
	}
	if g.senderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(g.senderID),
			},
		}
	}
	if _, err := g.client.Publish(ctx, input); err != nil {
		return apperrors.NewGatewaySendFailedError(err)
	}
	return nil
}
