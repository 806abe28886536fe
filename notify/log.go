package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Log writes events to the structured log, used when no Telegram
// credentials are configured.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Notify(_ context.Context, ev Event) error {
	l.log.Info().
		Str("kind", string(ev.Kind)).
		Str("detail", ev.Body).
		Msg(ev.Title)
	return nil
}
