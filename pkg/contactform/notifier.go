package contactform

import (
	"context"
	"log/slog"
)

// Notice is a transient banner raised when a submission resolves.
type Notice struct {
	Status  Status
	Message string
	Err     error
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notice) {}

// LogNotifier writes notices to a slog logger.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) Notify(ctx context.Context, notice Notice) {
	log := n.Log
	if log == nil {
		log = slog.Default()
	}
	if notice.Status == StatusError {
		log.ErrorContext(ctx, notice.Message, "error", notice.Err)
		return
	}
	log.InfoContext(ctx, notice.Message)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(ctx context.Context, n Notice)

func (fn NotifierFunc) Notify(ctx context.Context, n Notice) { fn(ctx, n) }
