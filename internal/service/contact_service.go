package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nathantheresa/portfolio/internal/api/dto/common"
	"github.com/nathantheresa/portfolio/internal/api/sanitization"
	"github.com/nathantheresa/portfolio/internal/api/validation"
	"github.com/nathantheresa/portfolio/internal/logging"
)

// ContactOutcome is the terminal state of one submission
type ContactOutcome int

const (
	ContactDelivered ContactOutcome = iota
	ContactRateLimited
	ContactValidationFailed
	ContactDispatchFailed
	ContactUnexpectedFailure
)

func (o ContactOutcome) String() string {
	switch o {
	case ContactDelivered:
		return "delivered"
	case ContactRateLimited:
		return "rate_limited"
	case ContactValidationFailed:
		return "validation_failed"
	case ContactDispatchFailed:
		return "dispatch_failed"
	default:
		return "unexpected_failure"
	}
}

// StatusCode maps the outcome to its HTTP status
func (o ContactOutcome) StatusCode() int {
	switch o {
	case ContactDelivered:
		return http.StatusOK
	case ContactRateLimited:
		return http.StatusTooManyRequests
	case ContactValidationFailed:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ContactResult carries the outcome plus whatever detail belongs to it:
// Receipt for Delivered, Issues for ValidationFailed, Err for the failures.
type ContactResult struct {
	Outcome ContactOutcome
	Receipt *DispatchReceipt
	Issues  []common.ValidationError
	Err     error
}

// MailTemplate is the fixed sender identity and wording of the confirmation
type MailTemplate struct {
	From      string
	Subject   string
	Signature string
}

// ContactRecorder receives one observation per submission
type ContactRecorder interface {
	ObserveContact(outcome string)
}

// ContactService gates and relays contact-form submissions
type ContactService struct {
	ledger   RateLedger
	validate *validator.Validate
	mailer   Mailer
	notifier OwnerNotifier
	template MailTemplate
	recorder ContactRecorder
	logger   *logging.Logger
}

type ContactOption func(*ContactService)

// WithOwnerNotifier sends a best-effort alert after each delivered email
func WithOwnerNotifier(n OwnerNotifier) ContactOption {
	return func(s *ContactService) { s.notifier = n }
}

func WithContactRecorder(r ContactRecorder) ContactOption {
	return func(s *ContactService) { s.recorder = r }
}

// NewContactService creates a new contact service
func NewContactService(ledger RateLedger, mailer Mailer, tmpl MailTemplate, logger *logging.Logger, opts ...ContactOption) *ContactService {
	s := &ContactService{
		ledger:   ledger,
		validate: validation.New(),
		mailer:   mailer,
		template: tmpl,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs rate check, validation, sanitization and dispatch in order,
// stopping at the first failure. The ledger entry recorded by the rate
// check is kept whatever happens afterwards.
func (s *ContactService) Submit(ctx context.Context, sourceID string, body []byte) *ContactResult {
	ctx, span := otel.Tracer("github.com/nathantheresa/portfolio/internal/service").Start(ctx, "contact.Submit")
	defer span.End()

	res := s.submit(ctx, sourceID, body)

	span.SetAttributes(attribute.String("contact.outcome", res.Outcome.String()))
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Outcome.String())
	}
	if s.recorder != nil {
		s.recorder.ObserveContact(res.Outcome.String())
	}
	return res
}

func (s *ContactService) submit(ctx context.Context, sourceID string, body []byte) *ContactResult {
	allowed, err := s.ledger.CheckAndRecord(ctx, sourceID)
	if err != nil {
		s.logger.Error("Rate ledger unavailable for %s: %v", sourceID, err)
		return &ContactResult{Outcome: ContactUnexpectedFailure, Err: err}
	}
	if !allowed {
		s.logger.Info("Rate limit exceeded for source: %s", sourceID)
		return &ContactResult{Outcome: ContactRateLimited}
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		err = fmt.Errorf("failed to decode contact payload: %w", err)
		s.logger.Warn("Contact payload from %s rejected: %v", sourceID, err)
		return &ContactResult{Outcome: ContactUnexpectedFailure, Err: err}
	}

	parsed := validation.ParseContact(s.validate, raw)
	if !parsed.OK() {
		s.logger.Info("Validation failed for %s: %v", sourceID, parsed.Issues)
		return &ContactResult{Outcome: ContactValidationFailed, Issues: parsed.Issues}
	}
	submission := parsed.Submission

	msg := &Email{
		From:    s.template.From,
		To:      []string{submission.Email},
		Subject: s.template.Subject,
		HTML: RenderConfirmation(
			sanitization.EscapeHTML(submission.Name),
			sanitization.EscapeHTML(submission.Message),
			s.template.Signature,
		),
	}

	receipt, err := s.mailer.Send(ctx, msg)
	if err != nil {
		s.logger.Error("Failed to send confirmation email: %v", err)
		return &ContactResult{Outcome: ContactDispatchFailed, Err: err}
	}
	s.logger.Info("Confirmation email sent: %s", receipt.ID)

	if s.notifier != nil {
		if err := s.notifier.SendContactMessage(ctx, submission.Name, submission.Email, submission.Message); err != nil {
			s.logger.Warn("Owner alert failed: %v", err)
		}
	}

	return &ContactResult{Outcome: ContactDelivered, Receipt: receipt}
}

// RenderConfirmation builds the confirmation body. name and message must
// already be HTML-escaped; signature is trusted configuration.
func RenderConfirmation(name, message, signature string) string {
	return fmt.Sprintf(confirmationTemplate, name, message, signature)
}

const confirmationTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #333; border-bottom: 2px solid #4F46E5; padding-bottom: 10px;">
    Thank you for reaching out, %s!
  </h1>
  <p style="color: #666; font-size: 16px; line-height: 1.6;">
    We have received your message and will get back to you as soon as possible.
  </p>
  <div style="background-color: #F3F4F6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #333; margin-top: 0;">Your Message:</h3>
    <p style="color: #666; font-style: italic; white-space: pre-wrap;">%s</p>
  </div>
  <p style="color: #666; font-size: 14px;">
    Best regards,<br>
    <strong>%s</strong>
  </p>
</div>
`
