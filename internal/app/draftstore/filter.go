package draftstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"chaletbook/internal/domain/booking"
)

// FilterDraft is the search context restored when the user navigates
// back from a chalet detail page.
type FilterDraft struct {
	Filters        booking.Filters `json:"filters"`
	Page           int             `json:"page"`
	ScrollPosition float64         `json:"scrollPosition"`
}

// FilterDrafts persists the search panel state under three sibling
// keys. Keys holding an empty/default value are removed rather than
// written, so a pristine panel leaves no residue in the store.
type FilterDrafts struct {
	kv     KV
	logger *slog.Logger
}

func NewFilterDrafts(kv KV, logger *slog.Logger) *FilterDrafts {
	return &FilterDrafts{kv: kv, logger: logger}
}

// SaveAll writes filters, page and scroll offset as one logical write.
func (s *FilterDrafts) SaveAll(ctx context.Context, sessionID string, draft FilterDraft) error {
	draft.Filters = draft.Filters.Normalized()
	if draft.Page < 1 {
		draft.Page = 1
	}

	if draft.Filters.IsZero() {
		if err := s.kv.Delete(ctx, sessionID, KeyFilters); err != nil {
			return err
		}
	} else {
		payload, err := json.Marshal(draft.Filters)
		if err != nil {
			return err
		}
		if err := s.kv.Set(ctx, sessionID, KeyFilters, payload); err != nil {
			return err
		}
	}

	if draft.Page <= 1 {
		if err := s.kv.Delete(ctx, sessionID, KeyCurrentPage); err != nil {
			return err
		}
	} else if err := s.kv.Set(ctx, sessionID, KeyCurrentPage, []byte(strconv.Itoa(draft.Page))); err != nil {
		return err
	}

	if draft.ScrollPosition <= 0 {
		return s.kv.Delete(ctx, sessionID, KeyScrollPosition)
	}
	return s.kv.Set(ctx, sessionID, KeyScrollPosition, []byte(strconv.FormatFloat(draft.ScrollPosition, 'f', -1, 64)))
}

// LoadAll restores the saved search context, defaulting each missing or
// malformed piece instead of failing the whole read.
func (s *FilterDrafts) LoadAll(ctx context.Context, sessionID string) (FilterDraft, error) {
	draft := FilterDraft{Page: 1}

	if payload, ok, err := s.kv.Get(ctx, sessionID, KeyFilters); err != nil {
		return draft, err
	} else if ok {
		if err := json.Unmarshal(payload, &draft.Filters); err != nil {
			s.warn(sessionID, "stored filters are not valid JSON", err)
			draft.Filters = booking.Filters{}
		}
	}

	if payload, ok, err := s.kv.Get(ctx, sessionID, KeyCurrentPage); err != nil {
		return draft, err
	} else if ok {
		if page, err := strconv.Atoi(string(payload)); err == nil && page >= 1 {
			draft.Page = page
		} else {
			s.warn(sessionID, "stored page is not a positive integer", err)
		}
	}

	if payload, ok, err := s.kv.Get(ctx, sessionID, KeyScrollPosition); err != nil {
		return draft, err
	} else if ok {
		if offset, err := strconv.ParseFloat(string(payload), 64); err == nil && offset >= 0 {
			draft.ScrollPosition = offset
		} else {
			s.warn(sessionID, "stored scroll offset is not a number", err)
		}
	}

	return draft, nil
}

// Clear wipes the search context; the next LoadAll starts at page 1.
func (s *FilterDrafts) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Delete(ctx, sessionID, KeyFilters, KeyCurrentPage, KeyScrollPosition)
}

func (s *FilterDrafts) warn(sessionID, msg string, err error) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, "session_id", sessionID, "error", err)
}
