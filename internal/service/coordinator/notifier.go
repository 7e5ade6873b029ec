package coordinator

import "go.uber.org/zap"

// NoticeLevel classifies a user-facing notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notifier receives the transient, non-blocking notices the coordinator
// emits when a mutation lands locally, syncs remotely, or fails to. It is
// the seam where a UI layer would hang its toasts.
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

// LogNotifier is a Notifier that writes notices to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier builds a logger-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the notice at a level matching its severity.
func (n *LogNotifier) Notify(level NoticeLevel, message string) {
	switch level {
	case NoticeError:
		n.logger.Error(message)
	case NoticeWarning:
		n.logger.Warn(message)
	default:
		n.logger.Info(message)
	}
}
