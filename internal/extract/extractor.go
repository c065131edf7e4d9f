// Package extract turns a recipe URL into a recipe draft. Video URLs go
// through their transcript and a generative model; article pages go through
// an ordered chain of HTML strategies.
package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"recipebox/internal/fetch"
	"recipebox/internal/recipe"
	"recipebox/internal/transcript"
)

const TranscriptStrategy = "transcript"

// Fetcher downloads a page.
type Fetcher interface {
	Get(ctx context.Context, url string) (*fetch.Response, error)
}

// TranscriptModel turns a joined transcript into a draft.
type TranscriptModel interface {
	DraftFromTranscript(ctx context.Context, transcript string) (*recipe.Draft, error)
}

// Extractor routes a URL to the video or article path.
type Extractor struct {
	Fetcher     Fetcher
	Transcripts transcript.Service
	Model       TranscriptModel
	Chain       Chain
}

// New creates an Extractor. A nil chain means DefaultChain with no options.
func New(fetcher Fetcher, transcripts transcript.Service, model TranscriptModel, chain Chain) *Extractor {
	if chain == nil {
		chain = DefaultChain(ChainOptions{})
	}
	return &Extractor{Fetcher: fetcher, Transcripts: transcripts, Model: model, Chain: chain}
}

// Extract classifies rawURL and runs the matching path.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*recipe.Draft, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("%w: url", recipe.ErrMissingInput)
	}
	src, err := Classify(rawURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var d *recipe.Draft
	if src.Kind == Video {
		d, err = e.fromVideo(ctx, src)
	} else {
		d, err = e.fromArticle(ctx, src)
	}
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Stringer("kind", src.Kind).Msg("extraction failed")
		return nil, err
	}
	d.SourceURL = src.URL.String()
	log.Info().
		Str("url", d.SourceURL).
		Stringer("kind", src.Kind).
		Str("strategy", d.Strategy).
		Int("ingredients", len(d.Ingredients)).
		Int("instructions", len(d.Instructions)).
		Dur("elapsed", time.Since(start)).
		Msg("recipe extracted")
	return d, nil
}

func (e *Extractor) fromVideo(ctx context.Context, src Source) (*recipe.Draft, error) {
	if e.Transcripts == nil {
		return nil, fmt.Errorf("%w: no transcript service configured", recipe.ErrTranscriptUnavailable)
	}
	segments, err := e.Transcripts.Segments(ctx, src.VideoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recipe.ErrTranscriptUnavailable, err)
	}
	text := transcript.Join(segments)
	if text == "" {
		return nil, fmt.Errorf("%w: transcript for %s is empty", recipe.ErrTranscriptUnavailable, src.VideoID)
	}

	if e.Model == nil {
		return nil, fmt.Errorf("%w: no generative model configured", recipe.ErrUpstreamService)
	}
	d, err := e.Model.DraftFromTranscript(ctx, text)
	if err != nil {
		return nil, err
	}
	d.SourceType = recipe.SourceYouTube
	d.Strategy = TranscriptStrategy
	return d, nil
}

func (e *Extractor) fromArticle(ctx context.Context, src Source) (*recipe.Draft, error) {
	resp, err := e.Fetcher.Get(ctx, src.URL.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recipe.ErrFetchFailed, err)
	}
	doc, err := ParseDocument(resp.Body, resp.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recipe.ErrFetchFailed, err)
	}
	if doc.URL == nil {
		doc.URL = src.URL
	}

	d := e.Chain.Run(doc)
	d.SourceType = recipe.SourceWeb
	return d, nil
}
