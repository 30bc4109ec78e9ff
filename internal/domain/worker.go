package domain

import (
	"strings"
)

const DefaultSessionPrefix = "claude-"

type WorkerName string

func (n WorkerName) String() string {
	return string(n)
}

// Valid reports whether n is non-empty and made only of [a-z0-9-].
func (n WorkerName) Valid() bool {
	if n == "" {
		return false
	}
	for _, r := range n {
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

type Worker struct {
	Name    WorkerName
	Session string
}

type ChatID int64

// SanitizeName lowercases raw and drops every character outside [a-z0-9-].
func SanitizeName(raw string) WorkerName {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		if isNameRune(r) {
			b.WriteRune(r)
		}
	}
	return WorkerName(b.String())
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
}

var reservedNames = map[WorkerName]struct{}{
	"team": {}, "focus": {}, "progress": {}, "learn": {}, "pause": {},
	"relaunch": {}, "settings": {}, "hire": {}, "end": {},
	"new": {}, "use": {}, "list": {}, "kill": {}, "status": {},
	"stop": {}, "restart": {}, "system": {}, "all": {}, "start": {}, "help": {},
}

func IsReservedName(name WorkerName) bool {
	_, ok := reservedNames[name]
	return ok
}

// ValidateNewName sanitizes raw and checks it can name a new worker.
func ValidateNewName(raw string) (WorkerName, error) {
	name := SanitizeName(raw)
	if !name.Valid() {
		return name, ErrInvalidName
	}
	if IsReservedName(name) {
		return name, ErrReservedName
	}
	return name, nil
}

func SessionHandle(prefix string, name WorkerName) string {
	return prefix + string(name)
}

// NameFromSession returns the worker name encoded in a tmux session name, or
// false when the session does not follow the prefix convention.
func NameFromSession(prefix, session string) (WorkerName, bool) {
	if prefix == "" || !strings.HasPrefix(session, prefix) {
		return "", false
	}
	name := WorkerName(strings.TrimPrefix(session, prefix))
	if name == "" {
		return "", false
	}
	return name, true
}
