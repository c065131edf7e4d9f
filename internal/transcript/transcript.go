// Package transcript retrieves the caption track of a video as ordered,
// timestamped segments.
package transcript

import (
	"context"
	"errors"
	"strings"
)

// ErrNoTranscript is returned when a video has no usable caption track, or
// captions are disabled.
var ErrNoTranscript = errors.New("no transcript available")

// Segment is one caption fragment. Start and Duration are in seconds.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Service returns the ordered transcript segments of a video.
type Service interface {
	Segments(ctx context.Context, videoID string) ([]Segment, error)
}

// Join concatenates segment texts with single spaces, in order.
func Join(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
