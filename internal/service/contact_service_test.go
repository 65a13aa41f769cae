package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathantheresa/portfolio/internal/logging"
)

// Mock Mailer
type mockMailer struct {
	sent    []*Email
	sendErr error
}

func (m *mockMailer) Send(ctx context.Context, msg *Email) (*DispatchReceipt, error) {
	m.sent = append(m.sent, msg)
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return &DispatchReceipt{ID: "email_123", Raw: json.RawMessage(`{"id":"email_123"}`)}, nil
}

// Mock OwnerNotifier
type mockNotifier struct {
	calls int
	err   error
}

func (m *mockNotifier) SendContactMessage(ctx context.Context, name, email, message string) error {
	m.calls++
	return m.err
}

type failingLedger struct{}

func (failingLedger) CheckAndRecord(ctx context.Context, sourceID string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

type outcomeRecorder struct {
	outcomes []string
}

func (r *outcomeRecorder) ObserveContact(outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

var testTemplate = MailTemplate{
	From:      "Site Owner <owner@example.com>",
	Subject:   "Thank you for contacting us!",
	Signature: "Site Owner",
}

func newTestContactService(mailer Mailer, opts ...ContactOption) (*ContactService, *MemoryLedger) {
	ledger := NewMemoryLedger()
	return NewContactService(ledger, mailer, testTemplate, logging.Discard(), opts...), ledger
}

func payload(name, email, message string) []byte {
	b, _ := json.Marshal(map[string]string{"name": name, "email": email, "message": message})
	return b
}

func TestSubmit_ValidPayloadIsDispatched(t *testing.T) {
	mailer := &mockMailer{}
	svc, _ := newTestContactService(mailer)

	res := svc.Submit(context.Background(), "1.2.3.4", payload("Jo", "jo@x.com", "Hello there!!"))

	require.Equal(t, ContactDelivered, res.Outcome)
	assert.Equal(t, http.StatusOK, res.Outcome.StatusCode())
	assert.Equal(t, "email_123", res.Receipt.ID)
	assert.JSONEq(t, `{"id":"email_123"}`, string(res.Receipt.Raw))

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, testTemplate.From, msg.From)
	assert.Equal(t, []string{"jo@x.com"}, msg.To)
	assert.Equal(t, testTemplate.Subject, msg.Subject)
	assert.Contains(t, msg.HTML, "Thank you for reaching out, Jo!")
	assert.Contains(t, msg.HTML, "Hello there!!")
	assert.Contains(t, msg.HTML, "<strong>Site Owner</strong>")
}

func TestSubmit_ShortNameFailsValidationWithoutDispatch(t *testing.T) {
	mailer := &mockMailer{}
	svc, _ := newTestContactService(mailer)

	res := svc.Submit(context.Background(), "1.2.3.4", payload("J", "jo@x.com", "Hello there!!"))

	require.Equal(t, ContactValidationFailed, res.Outcome)
	assert.Equal(t, http.StatusBadRequest, res.Outcome.StatusCode())
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "name", res.Issues[0].Field)
	assert.Empty(t, mailer.sent)
}

func TestSubmit_AnyInvalidFieldBlocksDispatch(t *testing.T) {
	cases := map[string][]byte{
		"bad email":     payload("Jo", "jo-at-x", "Hello there!!"),
		"short message": payload("Jo", "jo@x.com", "Hi"),
		"long name":     payload(strings.Repeat("n", 101), "jo@x.com", "Hello there!!"),
		"missing":       []byte(`{}`),
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			mailer := &mockMailer{}
			svc, _ := newTestContactService(mailer)

			res := svc.Submit(context.Background(), "src", body)

			assert.Equal(t, ContactValidationFailed, res.Outcome)
			assert.NotEmpty(t, res.Issues)
			assert.Empty(t, mailer.sent)
		})
	}
}

func TestSubmit_ScriptIsEscapedInBody(t *testing.T) {
	mailer := &mockMailer{}
	svc, _ := newTestContactService(mailer)

	res := svc.Submit(context.Background(), "src",
		payload(`<b>Jo</b>`, "jo@x.com", `Hi <script>alert("x")</script> & 'bye'`))

	require.Equal(t, ContactDelivered, res.Outcome)
	html := mailer.sent[0].HTML
	assert.Contains(t, html, "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt; &amp; &#039;bye&#039;")
	assert.Contains(t, html, "&lt;b&gt;Jo&lt;/b&gt;")
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<b>Jo")
}

func TestSubmit_RecipientIsTrimmed(t *testing.T) {
	mailer := &mockMailer{}
	svc, _ := newTestContactService(mailer)

	res := svc.Submit(context.Background(), "src", payload("Jo", "  jo+site@x.com ", "Hello there!!"))

	require.Equal(t, ContactDelivered, res.Outcome)
	assert.Equal(t, []string{"jo+site@x.com"}, mailer.sent[0].To)
}

func TestSubmit_FourthSubmissionIsRateLimited(t *testing.T) {
	mailer := &mockMailer{}
	svc, _ := newTestContactService(mailer)
	body := payload("Jo", "jo@x.com", "Hello there!!")

	for i := 0; i < 3; i++ {
		require.Equal(t, ContactDelivered, svc.Submit(context.Background(), "1.2.3.4", body).Outcome)
	}

	res := svc.Submit(context.Background(), "1.2.3.4", body)
	assert.Equal(t, ContactRateLimited, res.Outcome)
	assert.Equal(t, http.StatusTooManyRequests, res.Outcome.StatusCode())
	assert.Len(t, mailer.sent, 3)

	assert.Equal(t, ContactDelivered, svc.Submit(context.Background(), "5.6.7.8", body).Outcome)
}

func TestSubmit_InvalidAttemptsCountTowardTheLimit(t *testing.T) {
	svc, _ := newTestContactService(&mockMailer{})

	for i := 0; i < 3; i++ {
		svc.Submit(context.Background(), "src", payload("J", "bad", "short"))
	}

	res := svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))
	assert.Equal(t, ContactRateLimited, res.Outcome)
}

func TestSubmit_DispatchFailureKeepsLedgerEntry(t *testing.T) {
	mailer := &mockMailer{sendErr: errors.New("resend API returned status 500")}
	notifier := &mockNotifier{}
	svc, ledger := newTestContactService(mailer, WithOwnerNotifier(notifier))

	res := svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))

	require.Equal(t, ContactDispatchFailed, res.Outcome)
	assert.Equal(t, http.StatusInternalServerError, res.Outcome.StatusCode())
	assert.ErrorContains(t, res.Err, "status 500")
	assert.Equal(t, 1, ledger.Len())
	assert.Equal(t, 0, notifier.calls)

	svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))
	svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))
	assert.Equal(t, ContactRateLimited, svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!")).Outcome)
	assert.Len(t, mailer.sent, 3, "exactly one send per accepted attempt, no retries")
}

func TestSubmit_MalformedJSONIsUnexpectedFailure(t *testing.T) {
	mailer := &mockMailer{}
	svc, ledger := newTestContactService(mailer)

	res := svc.Submit(context.Background(), "src", []byte(`{"name":`))

	assert.Equal(t, ContactUnexpectedFailure, res.Outcome)
	assert.Equal(t, http.StatusInternalServerError, res.Outcome.StatusCode())
	assert.Error(t, res.Err)
	assert.Equal(t, 1, ledger.Len())
	assert.Empty(t, mailer.sent)
}

func TestSubmit_LedgerErrorIsUnexpectedFailure(t *testing.T) {
	mailer := &mockMailer{}
	svc := NewContactService(failingLedger{}, mailer, testTemplate, logging.Discard())

	res := svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))

	assert.Equal(t, ContactUnexpectedFailure, res.Outcome)
	assert.Empty(t, mailer.sent)
}

func TestSubmit_OwnerAlertFailureDoesNotChangeOutcome(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("telegram down")}
	svc, _ := newTestContactService(&mockMailer{}, WithOwnerNotifier(notifier))

	res := svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))

	assert.Equal(t, ContactDelivered, res.Outcome)
	assert.Equal(t, 1, notifier.calls)
}

func TestSubmit_RecordsOutcome(t *testing.T) {
	rec := &outcomeRecorder{}
	svc, _ := newTestContactService(&mockMailer{}, WithContactRecorder(rec))

	svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))
	svc.Submit(context.Background(), "src", payload("J", "jo@x.com", "Hello there!!"))
	svc.Submit(context.Background(), "src", []byte("nope"))
	svc.Submit(context.Background(), "src", payload("Jo", "jo@x.com", "Hello there!!"))

	assert.Equal(t, []string{"delivered", "validation_failed", "unexpected_failure", "rate_limited"}, rec.outcomes)
}

func TestRenderConfirmation(t *testing.T) {
	html := RenderConfirmation("Jo", "Line one", "Site Owner")

	assert.Contains(t, html, "Thank you for reaching out, Jo!")
	assert.Contains(t, html, `white-space: pre-wrap;">Line one</p>`)
	assert.Contains(t, html, "<strong>Site Owner</strong>")
}
