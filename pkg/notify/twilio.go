package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the subset of the Twilio API service used here.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioNotifier sends the reference URL as media on a Twilio message.
type TwilioNotifier struct {
	api  MessageCreator
	opts Options
}

// NewTwilioNotifier creates a notifier backed by the Twilio REST API.
func NewTwilioNotifier(accountSID, authToken string, opts Options) *TwilioNotifier {
	c := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioNotifierWithAPI(c.Api, opts)
}

// NewTwilioNotifierWithAPI creates a notifier from an existing message creator.
func NewTwilioNotifierWithAPI(api MessageCreator, opts Options) *TwilioNotifier {
	return &TwilioNotifier{api: api, opts: opts}
}

func (n *TwilioNotifier) Notify(ctx context.Context, destination, referenceURL string) (*Receipt, error) {
	if err := ValidateDestination(destination, n.opts.Strict); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(address(n.opts.Channel, destination))
	params.SetFrom(n.opts.From)
	params.SetBody(n.opts.Body)
	params.SetMediaUrl([]string{referenceURL})

	msg, err := n.api.CreateMessage(params)
	if err != nil {
		var restErr *client.TwilioRestError
		if errors.As(err, &restErr) {
			return nil, &RejectedError{Code: restErr.Code, Status: restErr.Status, Message: restErr.Message}
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	receipt := &Receipt{}
	if msg.Sid != nil {
		receipt.MessageID = *msg.Sid
	}
	if msg.Status != nil {
		receipt.Status = *msg.Status
	}
	return receipt, nil
}
