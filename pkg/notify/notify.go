package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidDestination means the destination failed local validation.
	ErrInvalidDestination = errors.New("notify: invalid destination")
	// ErrRejected means the provider refused the message.
	ErrRejected = errors.New("notify: rejected by provider")
	// ErrUnavailable means the provider could not be reached.
	ErrUnavailable = errors.New("notify: provider unavailable")
)

// RejectedError carries the provider's own rejection. Error returns the
// provider message unchanged so it can be shown to the caller as is.
type RejectedError struct {
	Code    int
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrRejected
}

// Receipt is the provider's acknowledgement of a sent message.
type Receipt struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// Notifier delivers a link to a published artifact.
type Notifier interface {
	Notify(ctx context.Context, destination, referenceURL string) (*Receipt, error)
}

// Options configures the message sent by a notifier.
type Options struct {
	From    string
	Channel string // "whatsapp", "sms"
	Body    string
	// Strict requires destinations in E.164 form before calling the provider.
	Strict bool
}

var validate = validator.New()

// ValidateDestination checks a destination before it is handed to a provider.
func ValidateDestination(destination string, strict bool) error {
	tag := "required"
	if strict {
		tag = "required,e164"
	}
	if err := validate.Var(strings.TrimSpace(destination), tag); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDestination, destination)
	}
	return nil
}

// address prefixes destination with the channel, "whatsapp:+91..." for example.
func address(channel, destination string) string {
	destination = strings.TrimSpace(destination)
	if channel == "" || channel == "sms" || strings.HasPrefix(destination, channel+":") {
		return destination
	}
	return channel + ":" + destination
}

// NewNotifierFromConfig creates the appropriate Notifier based on notifierType.
//
//	notifierType: "twilio" or "log"
func NewNotifierFromConfig(notifierType, accountSID, authToken string, opts Options) (Notifier, error) {
	switch notifierType {
	case "twilio", "":
		if accountSID == "" || authToken == "" {
			return nil, fmt.Errorf("notify: ACCOUNT_SID and AUTH_TOKEN are required for the twilio notifier")
		}
		return NewTwilioNotifier(accountSID, authToken, opts), nil
	case "log":
		return NewLogNotifier(opts), nil
	default:
		return nil, fmt.Errorf("notify: unknown notifier type %q (use twilio or log)", notifierType)
	}
}
