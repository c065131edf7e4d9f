package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"recipebox/internal/fetch"
)

const (
	formatJSON3    = "json3"
	origSuffix     = "-orig"
	defaultTimeout = 30 * time.Second
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// YtDlp resolves caption tracks with the yt-dlp binary and downloads the
// selected json3 track over HTTP.
type YtDlp struct {
	// Path is the yt-dlp executable (name on PATH or absolute path).
	Path string
	// Languages are tried in order; manual captions win over automatic ones.
	Languages []string
	// Timeout bounds the whole lookup: metadata dump plus caption download.
	Timeout time.Duration
	Fetcher *fetch.Client
	Run     Runner
}

// NewYtDlp builds a service with the given binary, languages and timeout.
func NewYtDlp(path string, languages []string, timeout time.Duration) *YtDlp {
	return &YtDlp{
		Path:      path,
		Languages: languages,
		Timeout:   timeout,
		Fetcher: &fetch.Client{
			MaxAttempts:  2,
			ContentTypes: []string{"application/json", "text/"},
		},
		Run: execRunner,
	}
}

type subtitleItem struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// videoInfo is the subset of `yt-dlp -j` output used to locate captions.
type videoInfo struct {
	ID                string                    `json:"id"`
	Subtitles         map[string][]subtitleItem `json:"subtitles"`
	AutomaticCaptions map[string][]subtitleItem `json:"automatic_captions"`
}

// Segments implements Service.
func (y *YtDlp) Segments(ctx context.Context, videoID string) ([]Segment, error) {
	timeout := y.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	info, err := y.dumpInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	trackURL, lang := selectTrack(info, y.Languages)
	if trackURL == "" {
		return nil, fmt.Errorf("%w: video %s has no caption track", ErrNoTranscript, videoID)
	}
	log.Debug().Str("video", videoID).Str("lang", lang).Msg("caption track selected")

	fetcher := y.Fetcher
	if fetcher == nil {
		fetcher = &fetch.Client{ContentTypes: []string{"application/json", "text/"}}
	}
	resp, err := fetcher.Get(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("download captions: %w", err)
	}
	segments, err := ParseJSON3(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: caption track for %s is empty", ErrNoTranscript, videoID)
	}
	return segments, nil
}

func (y *YtDlp) dumpInfo(ctx context.Context, videoID string) (*videoInfo, error) {
	run := y.Run
	if run == nil {
		run = execRunner
	}
	exe := y.Path
	if exe == "" {
		exe = "yt-dlp"
	}
	// --no-config first so local user configs cannot change the output
	args := []string{"--no-config", "-j", "--skip-download", "--no-warnings", "--no-progress",
		"https://www.youtube.com/watch?v=" + videoID}

	start := time.Now()
	out, err := run(ctx, exe, args...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("yt-dlp timed out after %s: %w", time.Since(start).Round(time.Millisecond), ctx.Err())
		}
		return nil, fmt.Errorf("yt-dlp dump json failed: %w, output: %s", err, strings.TrimSpace(string(out)))
	}
	log.Debug().Str("video", videoID).Dur("elapsed", time.Since(start)).Msg("yt-dlp metadata extracted")

	var jsonLine string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") {
			jsonLine = line
			break
		}
	}
	if jsonLine == "" {
		return nil, fmt.Errorf("no JSON found in yt-dlp output: %s", strings.TrimSpace(string(out)))
	}

	var info videoInfo
	if err := json.Unmarshal([]byte(jsonLine), &info); err != nil {
		return nil, fmt.Errorf("unmarshal yt-dlp output: %w", err)
	}
	return &info, nil
}

// selectTrack picks the json3 caption URL. Preference: manual track in a
// preferred language, automatic original-language track in a preferred
// language, any manual track, any automatic original-language track.
func selectTrack(info *videoInfo, languages []string) (string, string) {
	for _, lang := range languages {
		if u := json3URL(info.Subtitles[lang]); u != "" {
			return u, lang
		}
		for _, key := range []string{lang + origSuffix, lang} {
			if u := json3URL(info.AutomaticCaptions[key]); u != "" {
				return u, key
			}
		}
	}
	for _, lang := range sortedKeys(info.Subtitles) {
		if u := json3URL(info.Subtitles[lang]); u != "" {
			return u, lang
		}
	}
	for _, lang := range sortedKeys(info.AutomaticCaptions) {
		if !strings.HasSuffix(lang, origSuffix) {
			continue
		}
		if u := json3URL(info.AutomaticCaptions[lang]); u != "" {
			return u, lang
		}
	}
	return "", ""
}

func json3URL(items []subtitleItem) string {
	for _, it := range items {
		if strings.EqualFold(it.Ext, formatJSON3) && it.URL != "" {
			return it.URL
		}
	}
	return ""
}

func sortedKeys(m map[string][]subtitleItem) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
