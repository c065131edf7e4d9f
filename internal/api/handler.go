package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"recipebox/internal/export"
	"recipebox/internal/recipe"
)

const (
	// extractTimeout covers a page fetch with retries, or a transcript lookup
	// followed by a model call.
	extractTimeout    = 90 * time.Second
	generativeTimeout = 60 * time.Second
	searchTimeout     = 15 * time.Second
	storeTimeout      = 5 * time.Second
	thumbnailTimeout  = 20 * time.Second

	// PublicUser is recorded as the saver when no userId is given.
	PublicUser = "public"
)

// RecipeExtractor turns a URL into a recipe draft.
type RecipeExtractor interface {
	Extract(ctx context.Context, url string) (*recipe.Draft, error)
}

// Assistant defines the generative operations exposed over HTTP.
type Assistant interface {
	RecipeFromText(ctx context.Context, text string) (*recipe.Recipe, error)
	Suggest(ctx context.Context, ingredients string) ([]string, error)
	Complete(ctx context.Context, prompt string) (string, error)
}

// RecipeSearcher proxies third-party recipe search.
type RecipeSearcher interface {
	Search(ctx context.Context, query string, number int) (json.RawMessage, error)
}

// Thumbnailer stores a local copy of a recipe image.
type Thumbnailer interface {
	Save(ctx context.Context, imageURL string) (string, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Extractor   RecipeExtractor
	Assistant   Assistant
	Searcher    RecipeSearcher
	RecipeStore recipe.Store
	// Thumbnails is optional; nil disables image downloads.
	Thumbnails Thumbnailer
}

// NewHandler creates a new Handler.
func NewHandler(extractor RecipeExtractor, assistant Assistant, searcher RecipeSearcher, store recipe.Store, thumbnails Thumbnailer) *Handler {
	return &Handler{
		Extractor:   extractor,
		Assistant:   assistant,
		Searcher:    searcher,
		RecipeStore: store,
		Thumbnails:  thumbnails,
	}
}

type extractRequest struct {
	URL string `json:"url"`
}

// Extract runs the extraction pipeline on a URL.
func (h *Handler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		respondError(c, fmt.Errorf("%w: no URL provided", recipe.ErrMissingInput))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), extractTimeout)
	defer cancel()

	draft, err := h.Extractor.Extract(ctx, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

type importTextRequest struct {
	Text string `json:"text"`
}

// ImportText structures free recipe text with the generative model.
func (h *Handler) ImportText(c *gin.Context) {
	var req importTextRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		respondError(c, fmt.Errorf("%w: no text provided", recipe.ErrMissingInput))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generativeTimeout)
	defer cancel()

	r, err := h.Assistant.RecipeFromText(ctx, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

type suggestRequest struct {
	Ingredients string `json:"ingredients"`
}

// Suggest returns dish ideas for a list of ingredients.
func (h *Handler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Ingredients) == "" {
		respondError(c, fmt.Errorf("%w: no ingredients provided", recipe.ErrMissingInput))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generativeTimeout)
	defer cancel()

	suggestions, err := h.Assistant.Suggest(ctx, req.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type completeRequest struct {
	Prompt string `json:"prompt"`
}

// Complete forwards a raw prompt to the generative model.
func (h *Handler) Complete(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		respondError(c, fmt.Errorf("%w: no prompt provided", recipe.ErrMissingInput))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), generativeTimeout)
	defer cancel()

	result, err := h.Assistant.Complete(ctx, req.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetRecipes lists every saved recipe in creation order.
func (h *Handler) GetRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	recipes, err := h.RecipeStore.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

type createRecipeRequest struct {
	RecipeData *recipe.Recipe `json:"recipeData"`
	UserID     string         `json:"userId"`
}

// CreateRecipe saves a submitted recipe and returns its id.
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: invalid recipe payload: %s", recipe.ErrMissingInput, err.Error()))
		return
	}
	r := req.RecipeData
	if r == nil || strings.TrimSpace(r.Title) == "" {
		respondError(c, fmt.Errorf("%w: recipe title is required", recipe.ErrMissingInput))
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = PublicUser
	}
	if !slices.Contains(r.SavedBy, userID) {
		r.SavedBy = append(r.SavedBy, userID)
	}
	if r.SourceType == "" {
		r.SourceType = recipe.SourceManual
	}
	r.ID = ""
	r.ImagePath = ""

	if h.Thumbnails != nil && r.ImageURL != "" {
		tctx, cancel := context.WithTimeout(c.Request.Context(), thumbnailTimeout)
		path, err := h.Thumbnails.Save(tctx, r.ImageURL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("image_url", r.ImageURL).Msg("failed to save recipe thumbnail")
		} else {
			r.ImagePath = path
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	id, err := h.RecipeStore.Create(ctx, r)
	if err != nil {
		respondError(c, err)
		return
	}
	log.Info().Str("id", id).Str("title", r.Title).Str("user", userID).Msg("recipe saved")
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetRecipe returns a single recipe by id.
func (h *Handler) GetRecipe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	r, err := h.RecipeStore.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GetRecipePDF renders a saved recipe as a PDF download.
func (h *Handler) GetRecipePDF(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), storeTimeout)
	defer cancel()

	r, err := h.RecipeStore.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, r); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="recipe-%s.pdf"`, r.ID))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// Search proxies a recipe search to the third-party API.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		respondError(c, fmt.Errorf("%w: query parameter is required", recipe.ErrMissingInput))
		return
	}
	number, _ := strconv.Atoi(c.Query("number"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), searchTimeout)
	defer cancel()

	payload, err := h.Searcher.Search(ctx, query, number)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StatusFor maps an error to the HTTP status returned to clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, recipe.ErrMissingInput), errors.Is(err, recipe.ErrInvalidSource):
		return http.StatusBadRequest
	case errors.Is(err, recipe.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
