package mail

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{}, nil
}

func TestSendConfirmation_BuildsLinkAndRecipient(t *testing.T) {
	fake := &fakeSES{}
	m := &SESMailer{client: fake, sender: "noreply@example.com", baseURL: "https://contacts.example.com"}

	err := m.SendConfirmation(context.Background(), "alice@example.com", "alice", "tok123")
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	in := fake.inputs[0]
	assert.Equal(t, "noreply@example.com", *in.FromEmailAddress)
	assert.Equal(t, []string{"alice@example.com"}, in.Destination.ToAddresses)
	assert.Contains(t, *in.Content.Simple.Body.Text.Data,
		"https://contacts.example.com/api/auth/confirmed_email/tok123")
}

func TestSendPasswordReset_BuildsLink(t *testing.T) {
	fake := &fakeSES{}
	m := &SESMailer{client: fake, sender: "noreply@example.com", baseURL: "https://contacts.example.com"}

	err := m.SendPasswordReset(context.Background(), "bob@example.com", "bob", "tok456")
	require.NoError(t, err)
	require.Len(t, fake.inputs, 1)

	assert.Contains(t, *fake.inputs[0].Content.Simple.Body.Text.Data,
		"https://contacts.example.com/api/auth/confirm_reset_password/tok456")
}
