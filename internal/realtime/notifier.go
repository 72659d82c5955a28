package realtime

import (
	"log/slog"
	"sync"
)

// Notifier receives the best-effort UI feedback derived from order events.
// Toast and chime are one-shot; the alert loop repeats until stopped.
// None of these carry a delivery guarantee.
type Notifier interface {
	Toast(title, body string)
	PlayChime()
	StartAlertLoop()
	StopAlertLoop()
}

// LogNotifier renders notifications as structured log lines. Headless
// deployments use it as the default sink.
type LogNotifier struct {
	log *slog.Logger

	mu      sync.Mutex
	ringing bool
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Toast(title, body string) {
	n.log.Info("toast", "title", title, "body", body)
}

func (n *LogNotifier) PlayChime() {
	n.log.Info("chime")
}

func (n *LogNotifier) StartAlertLoop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.ringing {
		return
	}
	n.ringing = true
	n.log.Info("alert loop started")
}

func (n *LogNotifier) StopAlertLoop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.ringing {
		return
	}
	n.ringing = false
	n.log.Info("alert loop stopped")
}

// Ringing reports whether the repeating alert is active.
func (n *LogNotifier) Ringing() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ringing
}
