package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sangkips/receipt-relay/internal/domain/entity"
	"github.com/sangkips/receipt-relay/pkg/document"
	"github.com/sangkips/receipt-relay/pkg/notify"
	"github.com/sangkips/receipt-relay/pkg/renderer"
	"github.com/sangkips/receipt-relay/pkg/retry"
	"github.com/sangkips/receipt-relay/pkg/storage"
)

// State is the progress of one delivery run.
type State int

const (
	StateReceived State = iota
	StateComposed
	StateRendered
	StatePublished
	StateNotified
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateComposed:
		return "composed"
	case StateRendered:
		return "rendered"
	case StatePublished:
		return "published"
	case StateNotified:
		return "notified"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stage names the step that failed.
type Stage string

const (
	StageRender  Stage = "render"
	StagePublish Stage = "publish"
	StageNotify  Stage = "notify"
)

// StageError reports which stage stopped a run. Its message is the cause's
// message so callers can surface it unchanged.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Delivery is the result of a successful run.
type Delivery struct {
	Sid       string `json:"sid"`
	FileURL   string `json:"fileUrl"`
	Status    string `json:"status"`
	LocalPath string `json:"-"`
	State     State  `json:"-"`
}

// RetryPolicies holds one policy per retryable stage.
type RetryPolicies struct {
	Render retry.Policy
	Upload retry.Policy
	Notify retry.Policy
}

// DefaultRetryPolicies makes one attempt per stage.
func DefaultRetryPolicies() RetryPolicies {
	return RetryPolicies{Render: retry.Once(), Upload: retry.Once(), Notify: retry.Once()}
}

// ReceiptService runs compose, render, publish and notify for one order.
type ReceiptService struct {
	composer  *ReceiptComposer
	renderer  renderer.Renderer
	publisher *storage.Publisher
	notifier  notify.Notifier
	retries   RetryPolicies
}

// NewReceiptService creates a new receipt service.
func NewReceiptService(
	composer *ReceiptComposer,
	r renderer.Renderer,
	publisher *storage.Publisher,
	notifier notify.Notifier,
	retries RetryPolicies,
) *ReceiptService {
	return &ReceiptService{
		composer:  composer,
		renderer:  r,
		publisher: publisher,
		notifier:  notifier,
		retries:   retries,
	}
}

// Send delivers a receipt for order. Stages run in order and the first
// failure ends the run. Completed stages are not undone, so an artifact that
// was published stays reachable even if the notification fails.
func (s *ReceiptService) Send(ctx context.Context, order entity.Order) (*Delivery, error) {
	state := StateReceived
	fail := func(stage Stage, err error) (*Delivery, error) {
		log.Printf("receipt %s: %s failed after %s: %v", order.ReceiptNumber, stage, state, err)
		return nil, &StageError{Stage: stage, Err: err}
	}

	doc, totals := s.composer.Compose(order)
	state = StateComposed
	log.Printf("receipt %s: composed %d lines, total %s", order.ReceiptNumber, len(totals.Lines), totals.Total.StringFixed(2))

	art, err := s.render(ctx, doc)
	if err != nil {
		return fail(StageRender, err)
	}
	state = StateRendered

	ref, err := s.publish(ctx, art, order.CustomerName)
	if err != nil {
		return fail(StagePublish, err)
	}
	state = StatePublished
	log.Printf("receipt %s: published %s", order.ReceiptNumber, ref.URL)

	var receipt *notify.Receipt
	err = retry.Do(ctx, s.retries.Notify, retryableNotify, func(ctx context.Context) error {
		var nerr error
		receipt, nerr = s.notifier.Notify(ctx, order.CustomerPhone, ref.URL)
		return nerr
	})
	if err != nil {
		return fail(StageNotify, err)
	}
	state = StateNotified
	log.Printf("receipt %s: notified, sid %s", order.ReceiptNumber, receipt.MessageID)

	return &Delivery{
		Sid:       receipt.MessageID,
		FileURL:   ref.URL,
		Status:    receipt.Status,
		LocalPath: ref.LocalPath,
		State:     StateCompleted,
	}, nil
}

func (s *ReceiptService) render(ctx context.Context, doc document.Document) (*renderer.Artifact, error) {
	var art *renderer.Artifact
	err := retry.Do(ctx, s.retries.Render, retryableRender, func(ctx context.Context) error {
		var rerr error
		art, rerr = s.renderer.Render(ctx, doc)
		return rerr
	})
	return art, err
}

// publish writes the local copy once and retries only the upload.
func (s *ReceiptService) publish(ctx context.Context, art *renderer.Artifact, owner string) (*storage.Reference, error) {
	saved, err := s.publisher.Save(art, owner)
	if err != nil {
		return nil, err
	}

	var ref *storage.Reference
	err = retry.Do(ctx, s.retries.Upload, retryableUpload, func(ctx context.Context) error {
		var uerr error
		ref, uerr = s.publisher.Upload(ctx, saved)
		return uerr
	})
	return ref, err
}

func retryableRender(err error) bool {
	return errors.Is(err, renderer.ErrUnavailable) || errors.Is(err, renderer.ErrLoadTimeout)
}

func retryableUpload(err error) bool {
	return errors.Is(err, storage.ErrUpload) && !errors.Is(err, storage.ErrLocatorFormat)
}

func retryableNotify(err error) bool {
	return errors.Is(err, notify.ErrUnavailable)
}
