package recipe

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// SourceType identifies where a recipe came from.
type SourceType string

const (
	SourceYouTube SourceType = "youtube"
	SourceWeb     SourceType = "web"
	SourceText    SourceType = "text"
	SourceManual  SourceType = "manual"
)

// NoRecipeFoundMessage is the message carried by the extraction sentinel.
const NoRecipeFoundMessage = "No structured recipe found"

// Draft is the unified result of the extraction pipeline, before anything is saved.
type Draft struct {
	Title        *string    `json:"title"`
	Description  string     `json:"description,omitempty"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	CookingTime  int        `json:"cookingTime,omitempty"`
	Servings     int        `json:"servings,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	SourceURL    string     `json:"sourceUrl,omitempty"`
	SourceType   SourceType `json:"sourceType,omitempty"`
	Strategy     string     `json:"strategy,omitempty"`

	// NoRecipeFound marks a page where every strategy came up empty. It is
	// distinct from a recipe whose fields happen to be empty.
	NoRecipeFound bool   `json:"noRecipeFound,omitempty"`
	Message       string `json:"message,omitempty"`
}

// NewDraft returns a Draft with a null title and empty, non-nil sequences.
func NewDraft() *Draft {
	return &Draft{Ingredients: []string{}, Instructions: []string{}}
}

// NotFoundDraft is the sentinel returned when no strategy located a recipe.
func NotFoundDraft() *Draft {
	d := NewDraft()
	d.NoRecipeFound = true
	d.Message = NoRecipeFoundMessage
	return d
}

// TitleText returns the title or "" when it is null.
func (d *Draft) TitleText() string {
	if d == nil || d.Title == nil {
		return ""
	}
	return *d.Title
}

// IsEmpty reports whether the draft carries no title, ingredients or instructions.
func (d *Draft) IsEmpty() bool {
	return d.TitleText() == "" && len(d.Ingredients) == 0 && len(d.Instructions) == 0
}

// StringPtr returns a pointer to s, or nil when s is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Ingredient is a structured ingredient line.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount,omitempty"`
	Unit   string `json:"unit,omitempty"`
}

// Step is one cooking step. Order starts at 1.
type Step struct {
	Order       int    `json:"order"`
	Instruction string `json:"instruction"`
}

// Recipe is a saved recipe record.
type Recipe struct {
	ID          string       `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description,omitempty" db:"description"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
	CookingTime int          `json:"cookingTime,omitempty" db:"cooking_time"`
	Servings    int          `json:"servings,omitempty" db:"servings"`
	Difficulty  string       `json:"difficulty,omitempty" db:"difficulty"`
	Cuisine     string       `json:"cuisine,omitempty" db:"cuisine"`
	ImageURL    string       `json:"imageUrl,omitempty" db:"image_url"`
	ImagePath   string       `json:"imagePath,omitempty" db:"image_path"`
	SourceURL   string       `json:"sourceUrl" db:"source_url"`
	SourceType  SourceType   `json:"sourceType" db:"source_type"`
	Tags        []string     `json:"tags"`
	SavedBy     []string     `json:"savedBy"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Recipe.
// Difficulty and cuisine are lower-cased so they can be filtered on.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type Alias Recipe // Create an alias to avoid infinite recursion
	aux := &struct {
		Difficulty string `json:"difficulty"`
		Cuisine    string `json:"cuisine"`
		*Alias
	}{
		Alias: (*Alias)(r),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	r.Difficulty = strings.ToLower(strings.TrimSpace(aux.Difficulty))
	r.Cuisine = strings.ToLower(strings.TrimSpace(aux.Cuisine))

	return nil
}

// Normalize fills nil sequences and renumbers steps so that orders run 1..n
// in ascending order of the submitted order (submission order breaks ties,
// unnumbered steps keep their position at the end).
func (r *Recipe) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.SavedBy == nil {
		r.SavedBy = []string{}
	}
	steps := make([]Step, 0, len(r.Steps))
	for _, s := range r.Steps {
		if strings.TrimSpace(s.Instruction) == "" {
			continue
		}
		steps = append(steps, s)
	}
	sort.SliceStable(steps, func(i, j int) bool {
		oi, oj := steps[i].Order, steps[j].Order
		if oi <= 0 {
			return false
		}
		if oj <= 0 {
			return true
		}
		return oi < oj
	})
	for i := range steps {
		steps[i].Order = i + 1
	}
	r.Steps = steps
}

// FromDraft converts an extraction result into an unsaved Recipe.
func FromDraft(d *Draft) *Recipe {
	r := &Recipe{
		Title:       d.TitleText(),
		Description: d.Description,
		CookingTime: d.CookingTime,
		Servings:    d.Servings,
		ImageURL:    d.ImageURL,
		SourceURL:   d.SourceURL,
		SourceType:  d.SourceType,
	}
	for _, line := range d.Ingredients {
		r.Ingredients = append(r.Ingredients, Ingredient{Name: line})
	}
	for i, line := range d.Instructions {
		r.Steps = append(r.Steps, Step{Order: i + 1, Instruction: line})
	}
	r.Normalize()
	return r
}

// Clone returns a copy of r that shares no slices with it.
func (r *Recipe) Clone() *Recipe {
	out := *r
	out.Ingredients = append(make([]Ingredient, 0, len(r.Ingredients)), r.Ingredients...)
	out.Steps = append(make([]Step, 0, len(r.Steps)), r.Steps...)
	out.Tags = append(make([]string, 0, len(r.Tags)), r.Tags...)
	out.SavedBy = append(make([]string, 0, len(r.SavedBy)), r.SavedBy...)
	return &out
}
