// Package messaging delivers patient notifications over email and SMS.
// It renders category templates, records every outbound message in an
// outbox, and supports retrying failed sends.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/notify"
)

// Channel is the delivery medium for an outbound message.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Message is one outbound delivery attempt and its outcome.
type Message struct {
	ID        string     `json:"id"`
	Channel   Channel    `json:"channel"`
	Recipient string     `json:"recipient"`
	Subject   string     `json:"subject,omitempty"`
	Body      string     `json:"body"`
	Category  string     `json:"category,omitempty"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// EmailSender sends email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender sends SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Template is a reusable message skeleton keyed by notification category.
// {{key}} placeholders are replaced at render time.
type Template struct {
	Category string `json:"category"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

// TemplateEngine stores templates and renders them with data.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewTemplateEngine returns an engine with the built-in category
// templates pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			Category: "appointment",
			Subject:  "Appointment update: {{title}}",
			Body:     "{{message}}",
		},
		{
			Category: "lab_result",
			Subject:  "Lab results: {{title}}",
			Body:     "{{message}} Log in to review the full result.",
		},
		{
			Category: "medication",
			Subject:  "Medication update: {{title}}",
			Body:     "{{message}}",
		},
		{
			Category: "screening",
			Subject:  "Screening reminder: {{title}}",
			Body:     "{{message}} Please contact your care team to schedule.",
		},
		{
			Category: "vital",
			Subject:  "Vital sign alert: {{title}}",
			Body:     "{{message}}",
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.Category] = &t
	}
}

// RegisterTemplate adds or replaces a category template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.Category] = &t
}

// Render fills the category template with data. Placeholders without a
// matching key are left as-is. Unknown categories fall back to a plain
// subject/body pass-through.
func (e *TemplateEngine) Render(category string, data map[string]string) (subject, body string) {
	e.mu.RLock()
	t, ok := e.templates[category]
	e.mu.RUnlock()
	if !ok {
		return data["title"], data["message"]
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body
}

// Outbox sends messages and records the outcome of every attempt.
type Outbox struct {
	emailSender EmailSender
	smsSender   SMSSender
	templates   *TemplateEngine
	nowFn       func() time.Time

	mu       sync.RWMutex
	messages map[string]*Message
}

// NewOutbox constructs an outbox over the given senders.
func NewOutbox(email EmailSender, sms SMSSender, tpl *TemplateEngine) *Outbox {
	return &Outbox{
		emailSender: email,
		smsSender:   sms,
		templates:   tpl,
		nowFn:       time.Now,
		messages:    make(map[string]*Message),
	}
}

// SetClock overrides the outbox's notion of "now" (tests).
func (o *Outbox) SetClock(now func() time.Time) {
	o.nowFn = now
}

// Send dispatches the message on its channel, stamps id and timestamps,
// and stores the attempt. The stored record reflects success or failure.
func (o *Outbox) Send(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = o.nowFn().UTC()
	m.Status = "pending"

	sendErr := o.dispatch(ctx, m)

	if sendErr != nil {
		m.Status = "failed"
		m.Error = sendErr.Error()
	} else {
		m.Status = "sent"
		sentAt := o.nowFn().UTC()
		m.SentAt = &sentAt
	}

	o.mu.Lock()
	o.messages[m.ID] = m
	o.mu.Unlock()

	return sendErr
}

func (o *Outbox) dispatch(ctx context.Context, m *Message) error {
	switch m.Channel {
	case ChannelEmail:
		if o.emailSender == nil {
			return errors.New("no email sender configured")
		}
		return o.emailSender.SendEmail(ctx, m.Recipient, m.Subject, m.Body)
	case ChannelSMS:
		if o.smsSender == nil {
			return errors.New("no sms sender configured")
		}
		return o.smsSender.SendSMS(ctx, m.Recipient, m.Body)
	default:
		return fmt.Errorf("unsupported channel: %s", m.Channel)
	}
}

// Retry re-sends a failed message. Messages in any other status are
// rejected.
func (o *Outbox) Retry(ctx context.Context, id string) error {
	o.mu.RLock()
	m, ok := o.messages[id]
	o.mu.RUnlock()
	if !ok {
		return fmt.Errorf("message %q not found", id)
	}
	if m.Status != "failed" {
		return fmt.Errorf("message %q is not in failed status (current: %s)", id, m.Status)
	}

	sendErr := o.dispatch(ctx, m)

	o.mu.Lock()
	if sendErr != nil {
		m.Status = "failed"
		m.Error = sendErr.Error()
	} else {
		m.Status = "sent"
		sentAt := o.nowFn().UTC()
		m.SentAt = &sentAt
		m.Error = ""
	}
	o.mu.Unlock()

	return sendErr
}

// Get retrieves a recorded message by id.
func (o *Outbox) Get(id string) (*Message, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	m, ok := o.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %q not found", id)
	}
	cp := *m
	return &cp, nil
}

// Stats returns message counts grouped by status.
func (o *Outbox) Stats() map[string]int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	stats := make(map[string]int)
	for _, m := range o.messages {
		stats[m.Status]++
	}
	return stats
}

// RecipientFunc resolves the current delivery address for a channel.
// Returning "" means no address is on file and the send is skipped.
type RecipientFunc func() string

// EmailChannel adapts the outbox to the scheduler's email side effect.
type EmailChannel struct {
	outbox    *Outbox
	recipient RecipientFunc
}

// NewEmailChannel builds the adapter; recipient resolves the patient's
// current email address per send.
func NewEmailChannel(outbox *Outbox, recipient RecipientFunc) *EmailChannel {
	return &EmailChannel{outbox: outbox, recipient: recipient}
}

// Email renders the notification's category template and sends it.
func (e *EmailChannel) Email(ctx context.Context, n notify.Notification) error {
	to := e.recipient()
	if to == "" {
		return errors.New("no email address on file")
	}
	subject, body := e.outbox.templates.Render(n.Category, map[string]string{
		"title":   n.Title,
		"message": n.Message,
	})
	return e.outbox.Send(ctx, &Message{
		Channel:   ChannelEmail,
		Recipient: to,
		Subject:   subject,
		Body:      body,
		Category:  n.Category,
	})
}

// SMSChannel adapts the outbox to the scheduler's SMS side effect.
type SMSChannel struct {
	outbox    *Outbox
	recipient RecipientFunc
}

// NewSMSChannel builds the adapter; recipient resolves the patient's
// current phone number per send.
func NewSMSChannel(outbox *Outbox, recipient RecipientFunc) *SMSChannel {
	return &SMSChannel{outbox: outbox, recipient: recipient}
}

// SMS sends the notification body as a text message.
func (s *SMSChannel) SMS(ctx context.Context, n notify.Notification) error {
	to := s.recipient()
	if to == "" {
		return errors.New("no phone number on file")
	}
	_, body := s.outbox.templates.Render(n.Category, map[string]string{
		"title":   n.Title,
		"message": n.Message,
	})
	return s.outbox.Send(ctx, &Message{
		Channel:   ChannelSMS,
		Recipient: to,
		Body:      body,
		Category:  n.Category,
	})
}

// LogEmailSender logs email sends instead of talking to an SMTP relay.
// Used in development where no mail infrastructure exists.
type LogEmailSender struct {
	Logger zerolog.Logger
}

func (l *LogEmailSender) SendEmail(_ context.Context, to, subject, _ string) error {
	l.Logger.Info().Str("to", to).Str("subject", subject).Msg("email send")
	return nil
}

// LogSMSSender logs SMS sends instead of talking to a gateway.
type LogSMSSender struct {
	Logger zerolog.Logger
}

func (l *LogSMSSender) SendSMS(_ context.Context, to, _ string) error {
	l.Logger.Info().Str("to", to).Msg("sms send")
	return nil
}
