// Package progress counts completed acquisition units and reports them to a
// Sink. Workers increment concurrently, so the order in which units are
// reported is unspecified, but the final count is exact.
package progress

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

type Sink interface {
	OnTotal(n int)
	OnIncrement()
	OnFinish()
}

type Counter struct {
	sink     Sink
	totalMux sync.Mutex
	total    atomic.Int64
	done     atomic.Int64
	finished sync.Once
}

func NewCounter(sink Sink) *Counter {
	return &Counter{sink: sink} //nolint:exhaustruct
}

// AddTotal grows the expected unit count by n and reports the new total.
// Totals are discovered incrementally as playlists are extracted, and are
// reported in increasing order.
func (c *Counter) AddTotal(n int) {
	if n <= 0 {
		return
	}

	c.totalMux.Lock()
	defer c.totalMux.Unlock()
	c.sink.OnTotal(int(c.total.Add(int64(n))))
}

func (c *Counter) Increment() {
	c.done.Add(1)
	c.sink.OnIncrement()
}

func (c *Counter) Finish() {
	c.finished.Do(c.sink.OnFinish)
}

func (c *Counter) Total() int {
	return int(c.total.Load())
}

func (c *Counter) Done() int {
	return int(c.done.Load())
}

type nop struct{}

func Nop() Sink { return nop{} }

func (nop) OnTotal(int)  {}
func (nop) OnIncrement() {}
func (nop) OnFinish()    {}

// ForOutput picks the terminal renderer when stderr is a TTY and falls back
// to log lines otherwise.
func ForOutput(logger zerolog.Logger, message string) Sink {
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return NewTerminal(os.Stderr, message)
	}

	return NewLog(logger)
}
