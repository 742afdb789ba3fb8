package logger

import (
	"context"
	"fmt"
	"log/slog"
)

// Notifier delivers a plain-text alert to the ops channel.
type Notifier interface {
	SendMessage(msg string)
}

// telegramHandler wraps another slog handler and forwards records at or above
// minLevel to the ops Telegram chat. Delivery is fire-and-forget, a lost alert
// must never block or fail request handling.
type telegramHandler struct {
	next     slog.Handler
	notifier Notifier
	minLevel slog.Level
	attrs    []slog.Attr
}

// SetupTelegramHandler layers Telegram alert forwarding on top of an existing
// logger.
func SetupTelegramHandler(log *slog.Logger, notifier Notifier, minLevel slog.Level) *slog.Logger {
	return slog.New(&telegramHandler{
		next:     log.Handler(),
		notifier: notifier,
		minLevel: minLevel,
	})
}

func (h *telegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *telegramHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= h.minLevel && h.notifier != nil {
		msg := fmt.Sprintf("[%s] %s", record.Level.String(), record.Message)
		for _, a := range h.attrs {
			msg += fmt.Sprintf("\n%s: %s", a.Key, a.Value.String())
		}
		record.Attrs(func(a slog.Attr) bool {
			msg += fmt.Sprintf("\n%s: %s", a.Key, a.Value.String())
			return true
		})
		go h.notifier.SendMessage(msg)
	}
	return h.next.Handle(ctx, record)
}

func (h *telegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &telegramHandler{
		next:     h.next.WithAttrs(attrs),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    merged,
	}
}

func (h *telegramHandler) WithGroup(name string) slog.Handler {
	return &telegramHandler{
		next:     h.next.WithGroup(name),
		notifier: h.notifier,
		minLevel: h.minLevel,
		attrs:    h.attrs,
	}
}
