package progress

import (
	"io"
	"time"

	pretty "github.com/jedib0t/go-pretty/v6/progress"
)

type Terminal struct {
	pw      pretty.Writer
	tracker *pretty.Tracker
}

func NewTerminal(out io.Writer, message string) *Terminal {
	pw := pretty.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(pretty.StyleDefault)
	pw.Style().Visibility.ETA = true
	pw.Style().Visibility.Value = true

	tracker := &pretty.Tracker{ //nolint:exhaustruct
		Message: message,
		Total:   0,
		Units:   pretty.UnitsDefault,
	}
	pw.AppendTracker(tracker)

	go pw.Render()

	return &Terminal{pw: pw, tracker: tracker}
}

func (t *Terminal) OnTotal(n int) {
	t.tracker.UpdateTotal(int64(n))
}

func (t *Terminal) OnIncrement() {
	t.tracker.Increment(1)
}

func (t *Terminal) OnFinish() {
	t.tracker.MarkAsDone()

	// Stop is a no-op until the render loop has started.
	for i := 0; i < 50 && !t.pw.IsRenderInProgress(); i++ {
		time.Sleep(10 * time.Millisecond)
	}
	// let the renderer draw the final state
	time.Sleep(150 * time.Millisecond)
	t.pw.Stop()
}
