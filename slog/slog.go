// Package slog provides logging decorators for parity services.
package slog

import "log/slog"

// levelFor logs failures at warn level and everything else at info.
func levelFor(err error) slog.Level {
	if err != nil {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
