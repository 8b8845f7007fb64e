package notify

import (
	"context"
	"log"

	"github.com/sangkips/receipt-relay/pkg/utils"
)

// LogNotifier logs the message instead of sending it. Used for local runs.
type LogNotifier struct {
	opts Options
}

func NewLogNotifier(opts Options) *LogNotifier {
	return &LogNotifier{opts: opts}
}

func (n *LogNotifier) Notify(ctx context.Context, destination, referenceURL string) (*Receipt, error) {
	if err := ValidateDestination(destination, n.opts.Strict); err != nil {
		return nil, err
	}

	id := "LOG" + utils.NewUUID().String()
	log.Printf("notify: to=%s from=%s body=%q media=%s id=%s",
		address(n.opts.Channel, destination), n.opts.From, n.opts.Body, referenceURL, id)

	return &Receipt{MessageID: id, Status: "logged"}, nil
}
