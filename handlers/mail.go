// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
)

// ResetLinkSender delivers password reset links to users.
type ResetLinkSender interface {
	SendResetLink(ctx context.Context, email, link string) error
}

// LogSender writes reset links to the log instead of sending them. Only
// suitable for development.
type LogSender struct{}

func (LogSender) SendResetLink(_ context.Context, email, link string) error {
	slog.Info("password reset link", "email", email, "link", link)
	return nil
}
