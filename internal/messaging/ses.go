package messaging

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/tubaraaoemprestimo/tubaraoemprestimo-sub000/internal/common/apperrors"
)

// SESAPI is the SES surface the gateway uses, kept narrow for mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESGateway delivers email collection messages via SES.
type SESGateway struct {
	client  SESAPI
	from    string
	subject string
}

func NewSESGateway(ctx context.Context, region, from, subject string) (*SESGateway, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESGateway{client: ses.NewFromConfig(cfg), from: from, subject: subject}, nil
}

// NewSESGatewayWithClient wires a pre-built client, used in tests.
func NewSESGatewayWithClient(client SESAPI, from, subject string) *SESGateway {
	return &SESGateway{client: client, from: from, subject: subject}
}

func (g *SESGateway) Send(ctx context.Context, recipient, text string) error {
	_, err := g.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(g.subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(text)},
			},
		},
		Source: aws.String(g.from),
	})
	if err != nil {
		return apperrors.NewGatewaySendFailedError(err)
	}
	return nil
}
