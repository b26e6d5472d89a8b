package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Hemakotibonthada/CancerDetector-sub007/internal/platform/blobstore"
)

// Fixed blob names for persisted scheduler state.
const (
	PreferencesBlobKey   = "notification_preferences"
	NotificationsBlobKey = "notifications"
)

// Restore loads preferences and the notification list from the blob
// store. Absent or malformed blobs fall back to defaults (preferences) or
// an empty list; Restore never fails for those cases, only for backend
// errors other than not-found.
func (s *Scheduler) Restore(ctx context.Context, blobs blobstore.Store) error {
	raw, err := blobs.Get(ctx, PreferencesBlobKey)
	switch {
	case errors.Is(err, blobstore.ErrBlobNotFound):
		// keep defaults
	case err != nil:
		return fmt.Errorf("load preferences blob: %w", err)
	default:
		var prefs Preferences
		if jsonErr := json.Unmarshal(raw, &prefs); jsonErr != nil {
			s.logger.Warn().Err(jsonErr).Msg("malformed preferences blob, using defaults")
		} else {
			if prefs.Categories == nil {
				prefs.Categories = make(map[string]bool)
			}
			if prefs.QuietHours.Start == "" {
				prefs.QuietHours.Start = "22:00"
			}
			if prefs.QuietHours.End == "" {
				prefs.QuietHours.End = "07:00"
			}
			s.mu.Lock()
			s.prefs = prefs
			s.mu.Unlock()
		}
	}

	raw, err = blobs.Get(ctx, NotificationsBlobKey)
	switch {
	case errors.Is(err, blobstore.ErrBlobNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("load notifications blob: %w", err)
	}
	var items []Notification
	if jsonErr := json.Unmarshal(raw, &items); jsonErr != nil {
		s.logger.Warn().Err(jsonErr).Msg("malformed notifications blob, starting empty")
		return nil
	}
	if len(items) > s.max {
		items = items[:s.max]
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Persist writes preferences and the notification list as JSON blobs.
func (s *Scheduler) Persist(ctx context.Context, blobs blobstore.Store) error {
	s.mu.RLock()
	prefs := s.prefs
	items := append([]Notification(nil), s.items...)
	s.mu.RUnlock()

	rawPrefs, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := blobs.Put(ctx, PreferencesBlobKey, rawPrefs); err != nil {
		return fmt.Errorf("store preferences blob: %w", err)
	}

	rawItems, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal notifications: %w", err)
	}
	if err := blobs.Put(ctx, NotificationsBlobKey, rawItems); err != nil {
		return fmt.Errorf("store notifications blob: %w", err)
	}
	return nil
}
