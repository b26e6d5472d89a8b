// Package notify keeps a bounded, most-recent-first list of notification
// events for the patient session and decides, via preferences and a
// quiet-hours window, whether delivery side effects fire. The event is
// always recorded; only delivery is suppressed.
package notify

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultMaxNotifications caps the retained event list unless overridden.
const DefaultMaxNotifications = 50

// Notification is one event in the list.
type Notification struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"` // e.g. "lab_result", "appointment", "vital", "medication", "screening"
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// NewNotification is the caller-supplied part of an event; the scheduler
// stamps id, timestamp and read state itself.
type NewNotification struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority,omitempty"`
}

// QuietHours is a daily window during which delivery side effects are
// suppressed. Start and End are "HH:MM"; the window may wrap past
// midnight (Start > End).
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Preferences controls which delivery channels fire and for which
// categories. A category absent from Categories is treated as enabled.
type Preferences struct {
	Sound      bool            `json:"sound"`
	Desktop    bool            `json:"desktop"`
	Email      bool            `json:"email"`
	SMS        bool            `json:"sms"`
	Categories map[string]bool `json:"categories"`
	QuietHours QuietHours      `json:"quiet_hours"`
}

// PreferencesPatch is a shallow merge into Preferences; nil fields are
// left unchanged.
type PreferencesPatch struct {
	Sound      *bool           `json:"sound,omitempty"`
	Desktop    *bool           `json:"desktop,omitempty"`
	Email      *bool           `json:"email,omitempty"`
	SMS        *bool           `json:"sms,omitempty"`
	Categories map[string]bool `json:"categories,omitempty"`
	QuietHours *QuietHours     `json:"quiet_hours,omitempty"`
}

// DefaultPreferences returns the documented fallback preferences: sound,
// desktop and email on, SMS off, quiet hours disabled with a 22:00–07:00
// window.
func DefaultPreferences() Preferences {
	return Preferences{
		Sound:      true,
		Desktop:    true,
		Email:      true,
		SMS:        false,
		Categories: make(map[string]bool),
		QuietHours: QuietHours{Enabled: false, Start: "22:00", End: "07:00"},
	}
}

// Sounder plays an audible alert for a delivered notification.
type Sounder interface {
	Play(ctx context.Context, n Notification) error
}

// DesktopNotifier presents a desktop alert for a delivered notification.
type DesktopNotifier interface {
	Notify(ctx context.Context, n Notification) error
}

// EmailNotifier sends the notification over email.
type EmailNotifier interface {
	Email(ctx context.Context, n Notification) error
}

// SMSNotifier sends the notification over SMS.
type SMSNotifier interface {
	SMS(ctx context.Context, n Notification) error
}

// Scheduler owns the notification list and delivery policy.
type Scheduler struct {
	mu     sync.RWMutex
	items  []Notification
	max    int
	prefs  Preferences
	nowFn  func() time.Time
	logger zerolog.Logger

	sounder Sounder
	desktop DesktopNotifier
	email   EmailNotifier
	sms     SMSNotifier
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithMax overrides the retained-list cap.
func WithMax(max int) Option {
	return func(s *Scheduler) {
		if max > 0 {
			s.max = max
		}
	}
}

// WithSounder installs the sound side effect.
func WithSounder(snd Sounder) Option {
	return func(s *Scheduler) { s.sounder = snd }
}

// WithDesktopNotifier installs the desktop-alert side effect.
func WithDesktopNotifier(d DesktopNotifier) Option {
	return func(s *Scheduler) { s.desktop = d }
}

// WithEmailNotifier installs the email side effect.
func WithEmailNotifier(e EmailNotifier) Option {
	return func(s *Scheduler) { s.email = e }
}

// WithSMSNotifier installs the SMS side effect.
func WithSMSNotifier(sm SMSNotifier) Option {
	return func(s *Scheduler) { s.sms = sm }
}

// WithClock overrides the scheduler's notion of "now" (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.nowFn = now }
}

// NewScheduler builds a scheduler with default preferences.
func NewScheduler(logger zerolog.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		max:    DefaultMaxNotifications,
		prefs:  DefaultPreferences(),
		nowFn:  time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stamps a fresh id and timestamp, marks the event unread, prepends
// it (dropping the oldest entries beyond the cap) and — outside quiet
// hours — fires the delivery side effects allowed by the current
// preferences. The returned value is the stored event.
func (s *Scheduler) Add(ctx context.Context, in NewNotification) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Category:  in.Category,
		Title:     in.Title,
		Message:   in.Message,
		Priority:  in.Priority,
		Timestamp: s.nowFn(),
		Read:      false,
	}

	s.mu.Lock()
	s.items = append([]Notification{n}, s.items...)
	if len(s.items) > s.max {
		s.items = s.items[:s.max]
	}
	prefs := s.prefs
	s.mu.Unlock()

	if s.inQuietHours(n.Timestamp, prefs.QuietHours) {
		s.logger.Debug().Str("id", n.ID).Msg("notification recorded, delivery suppressed by quiet hours")
		return n
	}
	if enabled, ok := prefs.Categories[n.Category]; ok && !enabled {
		return n
	}
	if prefs.Sound && s.sounder != nil {
		s.deliver(ctx, n, "sound", s.sounder.Play)
	}
	if prefs.Desktop && s.desktop != nil {
		s.deliver(ctx, n, "desktop", s.desktop.Notify)
	}
	if prefs.Email && s.email != nil {
		s.deliver(ctx, n, "email", s.email.Email)
	}
	if prefs.SMS && s.sms != nil {
		s.deliver(ctx, n, "sms", s.sms.SMS)
	}
	return n
}

// deliver runs a side effect best-effort: failures and panics are logged
// and discarded, never propagated; the event has already been recorded.
func (s *Scheduler) deliver(ctx context.Context, n Notification, channel string, fn func(context.Context, Notification) error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Str("channel", channel).Interface("panic", r).Msg("notification delivery panicked")
		}
	}()
	if err := fn(ctx, n); err != nil {
		s.logger.Warn().Err(err).Str("channel", channel).Str("id", n.ID).Msg("notification delivery failed")
	}
}

// inQuietHours reports whether now falls inside the configured window.
// Comparison is on minutes-since-midnight. A same-day window (start<=end)
// suppresses when start<=now<=end; a wrapping window (start>end)
// suppresses when now>=start or now<=end.
func (s *Scheduler) inQuietHours(now time.Time, qh QuietHours) bool {
	if !qh.Enabled {
		return false
	}
	start, okS := parseClock(qh.Start)
	end, okE := parseClock(qh.End)
	if !okS || !okE {
		return false
	}
	cur := now.Hour()*60 + now.Minute()
	if start <= end {
		return start <= cur && cur <= end
	}
	return cur >= start || cur <= end
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(v string) (int, bool) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// MarkAsRead marks the event read. One-way and idempotent; unknown ids
// are ignored.
func (s *Scheduler) MarkAsRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			return
		}
	}
}

// MarkAllAsRead marks every event read.
func (s *Scheduler) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].Read = true
	}
}

// Remove drops the event from the list. Unknown ids are ignored.
func (s *Scheduler) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// ClearAll empties the list.
func (s *Scheduler) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Notifications returns a copy of the list, most recent first.
func (s *Scheduler) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notification(nil), s.items...)
}

// UnreadCount is the number of events still unread.
func (s *Scheduler) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// UpdatePreferences shallow-merges the patch into the preferences record.
func (s *Scheduler) UpdatePreferences(p PreferencesPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Sound != nil {
		s.prefs.Sound = *p.Sound
	}
	if p.Desktop != nil {
		s.prefs.Desktop = *p.Desktop
	}
	if p.Email != nil {
		s.prefs.Email = *p.Email
	}
	if p.SMS != nil {
		s.prefs.SMS = *p.SMS
	}
	if p.Categories != nil {
		s.prefs.Categories = copyCategories(p.Categories)
	}
	if p.QuietHours != nil {
		s.prefs.QuietHours = *p.QuietHours
	}
}

// Preferences returns a copy of the current preferences.
func (s *Scheduler) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs := s.prefs
	prefs.Categories = copyCategories(s.prefs.Categories)
	return prefs
}

func copyCategories(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
