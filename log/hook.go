package log

import (
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

const maxStackFrames = 16

// stackHook attaches the caller stack to error and above events.
type stackHook struct{}

func (h *stackHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	if level < zerolog.ErrorLevel {
		return
	}

	arr := zerolog.Arr()
	for _, f := range callers(4) {
		arr.Dict(zerolog.Dict().
			Int("line", f.Line).
			Str("file", f.File).
			Str("function", f.Function),
		)
	}
	e.Array("stack", arr)
}

func callers(skip int) []runtime.Frame {
	var pcs [64]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return nil
	}

	var (
		frames = runtime.CallersFrames(pcs[:n])
		out    = make([]runtime.Frame, 0, maxStackFrames)
	)
	for len(out) < maxStackFrames {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, "github.com/rs/zerolog") {
			out = append(out, frame)
		}
		if !more {
			break
		}
	}

	return out
}
