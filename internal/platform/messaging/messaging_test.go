package messaging

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/notify"
)

// mockEmailSender records calls and optionally fails.
type mockEmailSender struct {
	mu         sync.Mutex
	calls      []emailCall
	shouldFail bool
}

type emailCall struct {
	to      string
	subject string
	body    string
}

func (m *mockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, emailCall{to, subject, body})
	if m.shouldFail {
		return errors.New("smtp unavailable")
	}
	return nil
}

type mockSMSSender struct {
	mu    sync.Mutex
	calls []string
}

func (m *mockSMSSender) SendSMS(_ context.Context, to, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, to+": "+body)
	return nil
}

func TestRenderKnownCategory(t *testing.T) {
	e := NewTemplateEngine()
	subject, body := e.Render("lab_result", map[string]string{
		"title":   "CBC panel",
		"message": "Your CBC panel results are available.",
	})
	if subject != "Lab results: CBC panel" {
		t.Errorf("subject = %q", subject)
	}
	if !strings.Contains(body, "Your CBC panel results are available.") {
		t.Errorf("body = %q", body)
	}
}

func TestRenderUnknownCategoryFallsBack(t *testing.T) {
	e := NewTemplateEngine()
	subject, body := e.Render("billing", map[string]string{
		"title":   "Statement ready",
		"message": "A new statement is ready.",
	})
	if subject != "Statement ready" || body != "A new statement is ready." {
		t.Errorf("fallback render = %q / %q", subject, body)
	}
}

func TestRenderLeavesMissingPlaceholders(t *testing.T) {
	e := NewTemplateEngine()
	e.RegisterTemplate(Template{Category: "custom", Subject: "{{title}}", Body: "{{missing}}"})
	_, body := e.Render("custom", map[string]string{"title": "x"})
	if body != "{{missing}}" {
		t.Errorf("expected untouched placeholder, got %q", body)
	}
}

func TestOutboxSendRecordsSuccess(t *testing.T) {
	email := &mockEmailSender{}
	o := NewOutbox(email, &mockSMSSender{}, NewTemplateEngine())

	m := &Message{Channel: ChannelEmail, Recipient: "pat@example.com", Subject: "s", Body: "b"}
	if err := o.Send(context.Background(), m); err != nil {
		t.Fatalf("send: %v", err)
	}
	if m.Status != "sent" || m.SentAt == nil {
		t.Errorf("message not marked sent: %+v", m)
	}
	if len(email.calls) != 1 || email.calls[0].to != "pat@example.com" {
		t.Errorf("unexpected sender calls %+v", email.calls)
	}
}

func TestOutboxSendRecordsFailure(t *testing.T) {
	email := &mockEmailSender{shouldFail: true}
	o := NewOutbox(email, &mockSMSSender{}, NewTemplateEngine())

	m := &Message{Channel: ChannelEmail, Recipient: "pat@example.com", Body: "b"}
	if err := o.Send(context.Background(), m); err == nil {
		t.Fatal("expected send error")
	}
	stored, err := o.Get(m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status != "failed" || stored.Error == "" {
		t.Errorf("expected failed record, got %+v", stored)
	}
}

func TestOutboxRetry(t *testing.T) {
	email := &mockEmailSender{shouldFail: true}
	o := NewOutbox(email, &mockSMSSender{}, NewTemplateEngine())

	m := &Message{Channel: ChannelEmail, Recipient: "pat@example.com", Body: "b"}
	o.Send(context.Background(), m)

	email.shouldFail = false
	if err := o.Retry(context.Background(), m.ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
	stored, _ := o.Get(m.ID)
	if stored.Status != "sent" || stored.Error != "" {
		t.Errorf("expected sent after retry, got %+v", stored)
	}

	// retrying a sent message is rejected
	if err := o.Retry(context.Background(), m.ID); err == nil {
		t.Error("expected error retrying a sent message")
	}
}

func TestOutboxStats(t *testing.T) {
	email := &mockEmailSender{}
	o := NewOutbox(email, &mockSMSSender{}, NewTemplateEngine())
	o.Send(context.Background(), &Message{Channel: ChannelEmail, Recipient: "a@example.com"})
	o.Send(context.Background(), &Message{Channel: "fax", Recipient: "b"})

	stats := o.Stats()
	if stats["sent"] != 1 || stats["failed"] != 1 {
		t.Errorf("stats = %v", stats)
	}
}

func TestEmailChannelRendersCategory(t *testing.T) {
	email := &mockEmailSender{}
	o := NewOutbox(email, nil, NewTemplateEngine())
	ch := NewEmailChannel(o, func() string { return "pat@example.com" })

	err := ch.Email(context.Background(), notify.Notification{
		Category: "screening",
		Title:    "Mammogram due",
		Message:  "Your mammogram is overdue.",
	})
	if err != nil {
		t.Fatalf("email: %v", err)
	}
	if len(email.calls) != 1 {
		t.Fatalf("expected one send, got %d", len(email.calls))
	}
	if email.calls[0].subject != "Screening reminder: Mammogram due" {
		t.Errorf("subject = %q", email.calls[0].subject)
	}
}

func TestEmailChannelNoAddress(t *testing.T) {
	o := NewOutbox(&mockEmailSender{}, nil, NewTemplateEngine())
	ch := NewEmailChannel(o, func() string { return "" })

	err := ch.Email(context.Background(), notify.Notification{Category: "vital"})
	if err == nil {
		t.Fatal("expected error when no address on file")
	}
}

func TestSMSChannelSends(t *testing.T) {
	sms := &mockSMSSender{}
	o := NewOutbox(nil, sms, NewTemplateEngine())
	ch := NewSMSChannel(o, func() string { return "+15551234567" })

	err := ch.SMS(context.Background(), notify.Notification{
		Category: "appointment",
		Title:    "Visit tomorrow",
		Message:  "Oncology follow-up at 09:00.",
	})
	if err != nil {
		t.Fatalf("sms: %v", err)
	}
	if len(sms.calls) != 1 || !strings.Contains(sms.calls[0], "Oncology follow-up") {
		t.Errorf("calls = %v", sms.calls)
	}
}
