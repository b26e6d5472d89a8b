package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestServer(s *Scheduler) *echo.Echo {
	e := echo.New()
	NewHandler(s).RegisterRoutes(e.Group("/api/v1"))
	return e
}

func request(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPostNotification(t *testing.T) {
	s := NewScheduler(zerolog.Nop(), WithClock(at(12, 0)))
	e := newTestServer(s)

	rec := request(t, e, http.MethodPost, "/api/v1/notifications",
		`{"category":"lab_result","title":"CBC ready","message":"Results available"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var n Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if n.ID == "" || n.Read {
		t.Errorf("returned event = %+v", n)
	}
	if len(s.Notifications()) != 1 {
		t.Error("event not recorded")
	}
}

func TestListAndUnreadCount(t *testing.T) {
	s := NewScheduler(zerolog.Nop(), WithClock(at(12, 0)))
	n := s.Add(context.Background(), NewNotification{Title: "a"})
	s.Add(context.Background(), NewNotification{Title: "b"})
	e := newTestServer(s)

	rec := request(t, e, http.MethodGet, "/api/v1/notifications", "")
	var items []Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(items) != 2 || items[0].Title != "b" {
		t.Errorf("items = %+v", items)
	}

	rec = request(t, e, http.MethodPost, "/api/v1/notifications/"+n.ID+"/read", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("read status = %d", rec.Code)
	}

	rec = request(t, e, http.MethodGet, "/api/v1/notifications/unread-count", "")
	var counts map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &counts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if counts["unread"] != 1 {
		t.Errorf("unread = %d", counts["unread"])
	}
}

func TestReadAllRemoveAndClear(t *testing.T) {
	s := NewScheduler(zerolog.Nop(), WithClock(at(12, 0)))
	n := s.Add(context.Background(), NewNotification{Title: "a"})
	s.Add(context.Background(), NewNotification{Title: "b"})
	e := newTestServer(s)

	if rec := request(t, e, http.MethodPost, "/api/v1/notifications/read-all", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("read-all status = %d", rec.Code)
	}
	if s.UnreadCount() != 0 {
		t.Error("read-all did not mark everything")
	}

	if rec := request(t, e, http.MethodDelete, "/api/v1/notifications/"+n.ID, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("remove status = %d", rec.Code)
	}
	if len(s.Notifications()) != 1 {
		t.Error("remove did not drop the event")
	}

	if rec := request(t, e, http.MethodDelete, "/api/v1/notifications", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}
	if len(s.Notifications()) != 0 {
		t.Error("clear left items")
	}
}

func TestPreferencesEndpoints(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	e := newTestServer(s)

	rec := request(t, e, http.MethodGet, "/api/v1/notification-preferences", "")
	var p Preferences
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.Sound || p.SMS {
		t.Errorf("defaults = %+v", p)
	}

	rec = request(t, e, http.MethodPatch, "/api/v1/notification-preferences",
		`{"sms":true,"quiet_hours":{"enabled":true,"start":"23:00","end":"06:00"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.SMS || !p.QuietHours.Enabled || p.QuietHours.Start != "23:00" {
		t.Errorf("patched prefs = %+v", p)
	}
	// untouched field survives
	if !p.Sound {
		t.Error("sound flag lost in patch")
	}
}
