package progress

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

type Log struct {
	logger zerolog.Logger
	total  atomic.Int64
	done   atomic.Int64
}

func NewLog(logger zerolog.Logger) *Log {
	return &Log{logger: logger} //nolint:exhaustruct
}

func (l *Log) OnTotal(n int) {
	l.total.Store(int64(n))
	l.logger.Info().Int("total", n).Msg("Discovered items")
}

func (l *Log) OnIncrement() {
	done := l.done.Add(1)
	l.logger.Info().Int64("done", done).Int64("total", l.total.Load()).Msg("Item processed")
}

func (l *Log) OnFinish() {
	l.logger.Info().Int64("done", l.done.Load()).Int64("total", l.total.Load()).Msg("All items processed")
}
