package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"recipebox/internal/api"
	"recipebox/internal/assistant"
	"recipebox/internal/config"
	"recipebox/internal/extract"
	"recipebox/internal/fetch"
	"recipebox/internal/media"
	"recipebox/internal/platform/gemini"
	"recipebox/internal/platform/localllm"
	"recipebox/internal/platform/spoonacular"
	"recipebox/internal/recipe"
	"recipebox/internal/transcript"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to a YAML or JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("invalid configuration")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, closeModel, err := newTextModel(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Generative.Provider).Msg("error creating generative client")
	}
	defer closeModel()

	store, closeStore, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating recipe store")
	}
	defer closeStore()

	handler := newHandler(cfg, model, store)
	r := setupRouter(handler, cfg.Server.AllowOrigins, cfg.Images.Dir)

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("provider", cfg.Generative.Provider).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	if level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
}

func newTextModel(ctx context.Context, cfg *config.Config) (assistant.TextModel, func(), error) {
	switch cfg.Generative.Provider {
	case config.ProviderLocal:
		return localllm.NewClient(cfg.Generative.BaseURL, cfg.Generative.APIKey, cfg.Generative.Model), func() {}, nil
	default:
		c, err := gemini.NewClient(ctx, cfg.Generative.APIKey, cfg.Generative.Model)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil
	}
}

func newStore(cfg *config.Config) (recipe.Store, func(), error) {
	if cfg.Database.URL == "" {
		log.Info().Msg("no database configured, recipes are kept in memory")
		return recipe.NewMemoryStore(), func() {}, nil
	}
	s, err := recipe.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { _ = s.Close() }, nil
}

func newHandler(cfg *config.Config, model assistant.TextModel, store recipe.Store) *api.Handler {
	pages := &fetch.Client{
		UserAgent:         cfg.Fetch.UserAgent,
		MaxAttempts:       cfg.Fetch.MaxAttempts,
		PerRequestTimeout: cfg.Fetch.Timeout,
		MaxBytes:          cfg.Fetch.MaxBytes,
	}
	assist := assistant.New(model, cfg.Generative.Timeout)
	transcripts := transcript.NewYtDlp(cfg.Transcript.YtDlpPath, cfg.Transcript.Languages, cfg.Transcript.Timeout)
	transcripts.Fetcher.UserAgent = cfg.Fetch.UserAgent

	chain := extract.DefaultChain(extract.ChainOptions{
		LegacyKeywordFallback: cfg.Extract.LegacyKeywordFallback,
		LegacyMaxSteps:        cfg.Extract.LegacyMaxSteps,
	})
	log.Debug().Strs("strategies", chain.Names()).Msg("article strategy chain")
	extractor := extract.New(pages, transcripts, assist, chain)

	searcher := spoonacular.NewClient(cfg.Search.BaseURL, cfg.Search.APIKey, cfg.Search.Timeout)

	var thumbnails api.Thumbnailer
	if cfg.Images.Dir != "" {
		images := &fetch.Client{
			UserAgent:         cfg.Fetch.UserAgent,
			MaxAttempts:       cfg.Fetch.MaxAttempts,
			PerRequestTimeout: cfg.Fetch.Timeout,
			MaxBytes:          cfg.Fetch.MaxBytes,
			ContentTypes:      fetch.ImageTypes,
		}
		thumbnails = media.NewThumbnailer(images, cfg.Images.Dir, cfg.Images.Width)
	}

	return api.NewHandler(extractor, assist, searcher, store, thumbnails)
}

func setupRouter(handler *api.Handler, allowOrigins []string, imagesDir string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestID(), api.AccessLog())

	// Configure CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", api.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", api.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", handler.Health)
	r.POST("/parse", handler.Extract)

	g := r.Group("/api")
	g.POST("/extract", handler.Extract)
	g.POST("/import/text", handler.ImportText)
	g.POST("/suggest", handler.Suggest)
	g.POST("/gemini", handler.Complete)
	g.GET("/recipes", handler.GetRecipes)
	g.POST("/recipes", handler.CreateRecipe)
	g.GET("/recipes/:id", handler.GetRecipe)
	g.GET("/recipes/:id/pdf", handler.GetRecipePDF)
	g.GET("/search", handler.Search)

	if imagesDir != "" {
		r.Static("/images", imagesDir)
	}
	return r
}
