package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	sc "github.com/dmitrijs2005/contacthub/internal/server/config"
)

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newSESClientFromConfig = func(cfg aws.Config, optFns ...func(*sesv2.Options)) *sesv2.Client {
		return sesv2.NewFromConfig(cfg, optFns...)
	}
)

// sesAPI is the subset of the SES client used by the mailer.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends transactional mail through Amazon SES (or an SES-compatible
// endpoint when MailBaseEndpoint is set, e.g. a local stack).
type SESMailer struct {
	client  sesAPI
	sender  string
	baseURL string
}

// NewSESMailer builds the SES client from the server config.
func NewSESMailer(cfg *sc.Config) (*SESMailer, error) {
	awsCfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(cfg.MailRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.MailAccessKey,
			cfg.MailSecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newSESClientFromConfig(awsCfg, func(o *sesv2.Options) {
		if cfg.MailBaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.MailBaseEndpoint)
		}
	})

	return &SESMailer{
		client:  client,
		sender:  cfg.MailSender,
		baseURL: cfg.PublicBaseURL,
	}, nil
}

func (m *SESMailer) SendConfirmation(ctx context.Context, to, username, token string) error {
	subject := "Confirm your email"
	body := fmt.Sprintf(
		"Hi %s,\n\nConfirm your email address by opening the link below:\n\n%s/api/auth/confirmed_email/%s\n\nThe link is valid for 7 days.\n",
		username, m.baseURL, token)
	return m.send(ctx, to, subject, body)
}

func (m *SESMailer) SendPasswordReset(ctx context.Context, to, username, token string) error {
	subject := "Confirm password reset"
	body := fmt.Sprintf(
		"Hi %s,\n\nTo complete your password change, open the link below:\n\n%s/api/auth/confirm_reset_password/%s\n\nIf you did not request this, ignore this message.\n",
		username, m.baseURL, token)
	return m.send(ctx, to, subject, body)
}

func (m *SESMailer) send(ctx context.Context, to, subject, body string) error {
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	return err
}
