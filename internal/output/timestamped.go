package output

import (
	"strings"
	"unicode"

	"github.com/zudsniper/vidscribe/internal/transcribe"
)

// DefaultInterval is the default minimum spacing, in seconds, between markers.
const DefaultInterval = 30.0

// Options controls where Timestamped places markers.
type Options struct {
	// Interval is the minimum source time between two markers.
	// Values <= 0 mark every segment.
	Interval float64
	// AllSegments marks every segment regardless of Interval.
	AllSegments bool
}

// marker carries the reduction state across segments.
type marker struct {
	opts Options
	last float64
	b    strings.Builder
}

func (m *marker) add(seg transcribe.Segment) {
	text := strings.TrimLeftFunc(seg.Text, unicode.IsSpace)
	if m.opts.AllSegments || seg.StartSec-m.last >= m.opts.Interval {
		if m.b.Len() > 0 {
			m.b.WriteByte('\n')
		}
		m.b.WriteString(FormatTimestamp(seg.StartSec))
		m.b.WriteByte(' ')
		m.b.WriteString(text)
		m.last = seg.StartSec
		return
	}
	m.b.WriteByte(' ')
	m.b.WriteString(text)
}

// Timestamped collapses segments into a transcript, opening a new
// "[HH:MM:SS] text" line whenever a segment is due a marker and appending
// the rest to the current line. Segments are taken in the order given.
// Whitespace between segments is kept; trailing whitespace of the whole
// transcript is not.
func Timestamped(segs []transcribe.Segment, opts Options) string {
	m := &marker{opts: opts, last: -opts.Interval}
	for _, seg := range segs {
		m.add(seg)
	}
	return strings.TrimRightFunc(m.b.String(), unicode.IsSpace)
}

// Plain joins segment texts with single spaces and no markers.
func Plain(segs []transcribe.Segment) string {
	parts := make([]string, 0, len(segs))
	for _, seg := range segs {
		parts = append(parts, strings.TrimLeftFunc(seg.Text, unicode.IsSpace))
	}
	return strings.TrimRightFunc(strings.Join(parts, " "), unicode.IsSpace)
}
