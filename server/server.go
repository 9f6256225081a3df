package server

import (
	"context"
	"embed"
	"fmt"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pixelmint/pixelmint/internal/logging"
	"github.com/pixelmint/pixelmint/models"
)

//go:embed web
var webFS embed.FS

// Generator is the slice of the client the HTTP surface needs.
type Generator interface {
	GenerateImages(ctx context.Context, input models.ImageGenerationInput) (*models.ImageGenerationResponse, error)
}

// Server wires the generation client into a gin engine serving the JSON API
// and the embedded browser UI.
type Server struct {
	engine       *gin.Engine
	generator    Generator
	defaultModel string
	logger       logging.Logger
}

// New builds the HTTP server around the given generator. defaultModel is the
// "provider/model" address used when a request does not name one.
func New(generator Generator, defaultModel string, logger logging.Logger) (*Server, error) {
	registerAspectRatioValidation()

	s := &Server{
		engine:       gin.New(),
		generator:    generator,
		defaultModel: defaultModel,
		logger:       logger,
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(RequestID())
	s.engine.Use(RequestLogger(logger))

	api := s.engine.Group("/api")
	api.Use(gzip.Gzip(gzip.DefaultCompression))
	{
		api.GET("/status", s.status)
		api.POST("/generate", s.generate)
	}

	ui, err := static.EmbedFolder(webFS, "web")
	if err != nil {
		return nil, fmt.Errorf("embed web assets: %w", err)
	}
	s.engine.Use(static.Serve("/", ui))

	return s, nil
}

// Handler exposes the engine for net/http servers and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// registerAspectRatioValidation adds the "aspectratio" rule used by the
// generate request binding. Registration is idempotent.
func registerAspectRatioValidation() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("aspectratio", func(fl validator.FieldLevel) bool {
			return models.AspectRatio(fl.Field().String()).Valid()
		})
	}
}
