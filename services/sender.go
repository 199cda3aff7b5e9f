package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"barberqueue-backend/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const ChannelWhatsApp = "whatsapp"

// Message is one outbound notification. A non-empty TemplateID selects the
// pre-approved template path; otherwise Body is sent as free-form text.
type Message struct {
	To         string
	Body       string
	TemplateID string
	Variables  map[string]string
}

func (m Message) IsTemplate() bool {
	return m.TemplateID != ""
}

// MessageSender delivers a single message. Implementations must be safe for
// concurrent use; batches call Send from several goroutines.
type MessageSender interface {
	Send(ctx context.Context, msg Message) error
}

// messageAPI is the slice of the Twilio REST client the sender needs.
type messageAPI interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioSender struct {
	api  messageAPI
	from string
}

func NewTwilioSender(accountSID, authToken, whatsAppFrom string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: utils.WhatsAppAddress(whatsAppFrom)}
}

func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("message has no recipient")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(utils.WhatsAppAddress(msg.To))
	params.SetFrom(s.from)

	if msg.IsTemplate() {
		vars, err := json.Marshal(msg.Variables)
		if err != nil {
			return fmt.Errorf("encode template variables: %w", err)
		}
		params.SetContentSid(msg.TemplateID)
		params.SetContentVariables(string(vars))
	} else {
		params.SetBody(msg.Body)
	}

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		log.Printf("Message sent to %s, SID: %s", msg.To, *resp.Sid)
	} else {
		log.Printf("Message sent to %s, but no SID returned", msg.To)
	}
	return nil
}

// LogSender only logs messages. It backs MESSAGE_PROVIDER=log for dry runs.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	if msg.IsTemplate() {
		log.Printf("send %s template %s to %s: %v", ChannelWhatsApp, msg.TemplateID, msg.To, msg.Variables)
		return nil
	}
	log.Printf("send %s to %s: %s", ChannelWhatsApp, msg.To, msg.Body)
	return nil
}
