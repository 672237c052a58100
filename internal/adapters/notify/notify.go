package notify

import (
	"github.com/rs/zerolog"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Toast struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Toaster is the transient notification surface. Messages are logged and
// pushed onto a bounded feed the UI drains; when the feed is full the toast
// is dropped rather than blocking a submission path.
type Toaster struct {
	log  zerolog.Logger
	feed chan Toast
}

func New(log zerolog.Logger, buffer int) *Toaster {
	if buffer <= 0 {
		buffer = 32
	}
	return &Toaster{log: log, feed: make(chan Toast, buffer)}
}

func (t *Toaster) Success(msg string) {
	t.log.Info().Str("toast", "success").Msg(msg)
	t.push(Toast{Level: LevelSuccess, Message: msg})
}

func (t *Toaster) Error(msg string) {
	t.log.Warn().Str("toast", "error").Msg(msg)
	t.push(Toast{Level: LevelError, Message: msg})
}

func (t *Toaster) push(toast Toast) {
	select {
	case t.feed <- toast:
	default:
		t.log.Debug().Str("msg", toast.Message).Msg("toast feed full, dropped")
	}
}

// Feed exposes the pending toasts for the UI to drain.
func (t *Toaster) Feed() <-chan Toast { return t.feed }
