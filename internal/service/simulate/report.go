package simulate

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/tripwire/internal/domain/alarm"
	"github.com/oshokin/tripwire/internal/sensor"
)

// flashBarWidth is the number of cells used for a full-intensity flash.
const flashBarWidth = 12

// report renders frames and events as text lines. Colors are dropped when
// the output is not a terminal.
type report struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	dim      lipgloss.Style
	bold     lipgloss.Style
}

func newReport(out io.Writer) *report {
	r := lipgloss.NewRenderer(out)

	return &report{
		out:      out,
		renderer: r,
		dim:      r.NewStyle().Faint(true),
		bold:     r.NewStyle().Bold(true),
	}
}

// header prints the run parameters.
func (r *report) header(sensorID string, target sensor.ObjectID, ticks int, step time.Duration) {
	shown := string(target)
	if !target.Valid() {
		shown = "<unresolved>"
	}

	_, _ = fmt.Fprintf(r.out, "%s sensor=%s target=%s ticks=%d step=%s\n",
		r.bold.Render("tripwire simulation"), sensorID, shown, ticks, step)
}

// frame prints one tick.
func (r *report) frame(f *sensor.Frame) {
	beam := r.renderer.NewStyle().Foreground(lipgloss.Color(f.Signal.BeamColor.RGBHex()))
	if f.State == alarm.StateAlert {
		beam = beam.Bold(true)
	}

	hit := "-"
	if f.Beam.Occluded {
		hit = string(f.Beam.HitObject)
	}

	_, _ = fmt.Fprintf(r.out, "%s %9s %s end=(%.1f, %.1f) hit=%s flash=%.3f %s\n",
		r.dim.Render(fmt.Sprintf("#%05d", f.Tick)),
		f.Elapsed.Round(time.Millisecond),
		beam.Render(fmt.Sprintf("%-5s", f.State)),
		f.Signal.BeamEndpoint.X, f.Signal.BeamEndpoint.Y,
		hit,
		f.Signal.FlashIntensity,
		beam.Render(flashBar(f.Signal.FlashIntensity)),
	)
}

// event prints one notification below its frame.
func (r *report) event(e *sensor.Event) {
	line := fmt.Sprintf("  -> %s", e.Kind)
	if e.Kind == sensor.EventAlarmTriggered {
		line += fmt.Sprintf(" object=%s", e.Object)
	}

	_, _ = fmt.Fprintln(r.out, r.bold.Render(line))
}

// summary prints the totals of a run.
func (r *report) summary(s *Summary) {
	_, _ = fmt.Fprintf(r.out, "%s ticks=%d alert_ticks=%d triggers=%d resets=%d heartbeats=%d final=%s\n",
		r.bold.Render("summary"), s.Ticks, s.AlertTicks, s.Triggers, s.Resets, s.Heartbeats, s.Final)
}

// flashBar draws intensity as a bar scaled to the maximum flash intensity.
func flashBar(intensity float64) string {
	cells := int(intensity/sensor.MaxFlashIntensity*flashBarWidth + 0.5)
	cells = max(0, min(cells, flashBarWidth))

	return "[" + strings.Repeat("#", cells) + strings.Repeat(".", flashBarWidth-cells) + "]"
}
