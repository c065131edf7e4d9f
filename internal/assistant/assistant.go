// Package assistant turns free text into recipe data by prompting a
// generative text model and parsing its answers.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"recipebox/internal/recipe"
)

// TextModel is a generative text service: one prompt in, one completion out.
type TextModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Assistant wraps a TextModel with the recipe prompts.
type Assistant struct {
	Model TextModel
	// Timeout bounds each model call. Zero means no extra bound.
	Timeout time.Duration
}

// New creates an Assistant.
func New(model TextModel, timeout time.Duration) *Assistant {
	return &Assistant{Model: model, Timeout: timeout}
}

func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	text, err := a.Model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", recipe.ErrUpstreamService, err)
	}
	return text, nil
}

// Complete forwards prompt to the model unchanged.
func (a *Assistant) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt", recipe.ErrMissingInput)
	}
	return a.generate(ctx, prompt)
}

// transcriptDraft is the JSON shape requested from the model for videos.
type transcriptDraft struct {
	Title        *string  `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// DraftFromTranscript extracts a recipe from a video transcript. A response
// that is not valid JSON yields an empty draft rather than an error.
func (a *Assistant) DraftFromTranscript(ctx context.Context, transcript string) (*recipe.Draft, error) {
	text, err := a.generate(ctx, transcriptPrompt+transcript)
	if err != nil {
		return nil, err
	}

	d := recipe.NewDraft()
	var parsed transcriptDraft
	if err := json.Unmarshal([]byte(cleanJSON(text, '{', '}')), &parsed); err != nil {
		log.Warn().Err(err).Int("response_len", len(text)).Msg("model returned malformed recipe JSON")
		return d, nil
	}
	if parsed.Title != nil {
		d.Title = recipe.StringPtr(*parsed.Title)
	}
	d.Ingredients = nonEmpty(parsed.Ingredients)
	d.Instructions = nonEmpty(parsed.Instructions)
	return d, nil
}

// RecipeFromText asks the model to structure free recipe text.
func (a *Assistant) RecipeFromText(ctx context.Context, text string) (*recipe.Recipe, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text", recipe.ErrMissingInput)
	}
	out, err := a.generate(ctx, textImportPrompt+text)
	if err != nil {
		return nil, err
	}

	cleaned := cleanJSON(out, '{', '}')
	if cleaned == "" {
		return nil, fmt.Errorf("%w: model returned no recipe", recipe.ErrUpstreamService)
	}
	var r recipe.Recipe
	if err := json.Unmarshal([]byte(cleaned), &r); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal recipe JSON: %w", recipe.ErrUpstreamService, err)
	}
	r.ID = ""
	r.SourceURL = ""
	r.SourceType = recipe.SourceText
	r.Normalize()
	return &r, nil
}

// Suggest returns recipe ideas for a free-text list of ingredients.
func (a *Assistant) Suggest(ctx context.Context, ingredients string) ([]string, error) {
	if strings.TrimSpace(ingredients) == "" {
		return nil, fmt.Errorf("%w: ingredients", recipe.ErrMissingInput)
	}
	out, err := a.generate(ctx, suggestPrompt+ingredients)
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal([]byte(cleanJSON(out, '[', ']')), &list); err == nil {
		return nonEmpty(list), nil
	}
	return splitSuggestions(out), nil
}

// cleanJSON strips markdown fences and surrounding prose, returning the
// outermost open..close span, or "" when there is none.
func cleanJSON(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || start > end {
		return ""
	}
	return s[start : end+1]
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var listMarker = regexp.MustCompile(`^(?:[-*•#]+|\d+[.)])\s*`)

// splitSuggestions treats each non-empty line as a suggestion, dropping
// bullet and numbering prefixes.
func splitSuggestions(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			continue
		}
		line = listMarker.ReplaceAllString(line, "")
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
