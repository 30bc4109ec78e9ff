package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PendingTTL bounds how long a delivery may wait for its reply before the
// marker is considered abandoned.
const PendingTTL = 600 * time.Second

type StateField string

const (
	FieldPending StateField = "pending"
	FieldChatID  StateField = "chat_id"
)

type PendingMarker struct {
	Worker    WorkerName
	CreatedAt time.Time
}

func (m PendingMarker) Stale(now time.Time) bool {
	return now.Sub(m.CreatedAt) > PendingTTL
}

func FormatTimestamp(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

func ParseTimestamp(raw string) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse pending timestamp %q: %w", raw, err)
	}
	return time.Unix(secs, 0), nil
}

func FormatChatID(id ChatID) string {
	return strconv.FormatInt(int64(id), 10)
}

func ParseChatID(raw string) (ChatID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse chat id %q: %w", raw, err)
	}
	return ChatID(id), nil
}

// ValidateStateKey guards store backends against names that could escape a
// worker's namespace.
func ValidateStateKey(worker WorkerName, field StateField) error {
	name := strings.TrimSpace(string(worker))
	if name == "" {
		return errors.New("worker name is empty")
	}
	if !WorkerName(name).Valid() {
		return fmt.Errorf("invalid worker name %q", worker)
	}

	switch field {
	case FieldPending, FieldChatID:
		return nil
	default:
		return fmt.Errorf("unknown state field %q", field)
	}
}
