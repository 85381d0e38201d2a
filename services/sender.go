package services

import (
	"fmt"
	"os"

	"glowdesk-backend/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageSender delivers a composed message over a communication channel.
// Implementations report failures as errors; the ledger records the outcome.
type MessageSender interface {
	Send(method models.CommunicationMethod, destination, content string) error
}

type TwilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender() *TwilioSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *TwilioSender) Send(method models.CommunicationMethod, destination, content string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(content)

	// Channel addresses are prefixed the same way for every non-SMS channel.
	switch method {
	case models.MethodViber:
		params.SetTo("viber:" + destination)
		params.SetFrom("viber:" + os.Getenv("TWILIO_VIBER_NUMBER"))
	case models.MethodSMS:
		params.SetTo(destination)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	default:
		return fmt.Errorf("unsupported communication method: %s", method)
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s failed: %w", destination, err)
	}
	if resp.Sid == nil {
		return fmt.Errorf("twilio send to %s returned no SID", destination)
	}
	return nil
}
