package logger

import (
	"log/slog"
	"strconv"
)

// MaxValueLen is the longest user-data string logged verbatim.
const MaxValueLen = 64

// userDataKeys are attribute keys whose values come from clients.
var userDataKeys = map[string]struct{}{
	"key":     {},
	"value":   {},
	"arg":     {},
	"payload": {},
	"input":   {},
}

// truncateUserData shortens client-supplied strings so a single large SET
// cannot flood the log.
func truncateUserData(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = truncateUserData(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	if _, ok := userDataKeys[a.Key]; !ok {
		return a
	}
	if a.Value.Kind() != slog.KindString {
		return a
	}
	return slog.String(a.Key, Truncate(a.Value.String()))
}

// Truncate returns s cut to MaxValueLen bytes with a size suffix.
func Truncate(s string) string {
	if len(s) <= MaxValueLen {
		return s
	}
	return s[:MaxValueLen] + "...(" + strconv.Itoa(len(s)) + " bytes)"
}
