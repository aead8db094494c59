// Package limits reads the usage windows the Codex backend reports in response headers.
package limits

import (
	"math"
	"net/http"
	"strconv"
	"time"
)

// Window is one usage window reported by the upstream.
type Window struct {
	UsedPercent float64
	// Length and ResetsIn are zero when the upstream omits them.
	Length   time.Duration
	ResetsIn time.Duration
}

// Snapshot holds the primary and secondary windows captured from one response.
type Snapshot struct {
	CapturedAt time.Time
	Primary    *Window
	Secondary  *Window
}

// FromHeaders extracts usage windows from upstream response headers. It returns
// nil when neither window is present.
func FromHeaders(headers http.Header, capturedAt time.Time) *Snapshot {
	if headers == nil {
		return nil
	}
	primary := parseWindow(headers, "primary")
	secondary := parseWindow(headers, "secondary")
	if primary == nil && secondary == nil {
		return nil
	}
	return &Snapshot{CapturedAt: capturedAt, Primary: primary, Secondary: secondary}
}

func parseWindow(headers http.Header, name string) *Window {
	prefix := "x-codex-" + name + "-"
	used, err := strconv.ParseFloat(headers.Get(prefix+"used-percent"), 64)
	if err != nil || math.IsNaN(used) || math.IsInf(used, 0) {
		return nil
	}
	w := &Window{UsedPercent: used}
	if minutes, err := strconv.Atoi(headers.Get(prefix + "window-minutes")); err == nil {
		w.Length = time.Duration(minutes) * time.Minute
	}
	if seconds, err := strconv.Atoi(headers.Get(prefix + "reset-after-seconds")); err == nil {
		w.ResetsIn = time.Duration(seconds) * time.Second
	}
	return w
}

// ResetAt returns when the window resets, if the upstream reported it.
func (s *Snapshot) ResetAt(w *Window) (time.Time, bool) {
	if w == nil || w.ResetsIn <= 0 {
		return time.Time{}, false
	}
	return s.CapturedAt.Add(w.ResetsIn), true
}

// LogAttrs flattens the snapshot into slog key/value pairs.
func (s *Snapshot) LogAttrs() []any {
	var attrs []any
	add := func(name string, w *Window) {
		if w == nil {
			return
		}
		attrs = append(attrs, name+"_used_percent", w.UsedPercent)
		if at, ok := s.ResetAt(w); ok {
			attrs = append(attrs, name+"_resets_at", at.Format(time.RFC3339))
		}
	}
	add("primary", s.Primary)
	add("secondary", s.Secondary)
	return attrs
}
