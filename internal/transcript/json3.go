package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// rawJSON3 is the caption format served by YouTube for fmt=json3 tracks.
type rawJSON3 struct {
	Events []rawEvent `json:"events"`
}

type rawEvent struct {
	TStartMs    *int64   `json:"tStartMs,omitempty"`
	DDurationMs *int64   `json:"dDurationMs,omitempty"`
	Segs        []rawSeg `json:"segs,omitempty"`
}

type rawSeg struct {
	Utf8 string `json:"utf8"`
}

// ParseJSON3 converts a json3 caption document into segments. Events with no
// visible text (window setup, bare newlines) are dropped.
func ParseJSON3(b []byte) ([]Segment, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("parse json3: empty input")
	}
	var raw rawJSON3
	// Unknown fields (wpWinPosId, wWinId, acAsrConf...) are ignored.
	if err := json.NewDecoder(bytes.NewReader(b)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json3: %w", err)
	}

	out := make([]Segment, 0, len(raw.Events))
	for _, ev := range raw.Events {
		var sb strings.Builder
		for _, s := range ev.Segs {
			sb.WriteString(s.Utf8)
		}
		text := normalizeWhitespace(sb.String())
		if text == "" {
			continue
		}
		seg := Segment{Text: text}
		if ev.TStartMs != nil {
			seg.Start = float64(*ev.TStartMs) / 1000
		}
		if ev.DDurationMs != nil {
			seg.Duration = float64(*ev.DDurationMs) / 1000
		}
		out = append(out, seg)
	}
	return out, nil
}

// normalizeWhitespace leaves one space between words and none at the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
