// Package server exposes the card catalog over HTTP with fiber.
package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mesh-intelligence/elestrals/internal/logging"
	"github.com/mesh-intelligence/elestrals/pkg/types"
)

// Greeting is the body served at "/".
const Greeting = "Hello Elestrals"

// Catalog is the read side of the store the API serves.
type Catalog interface {
	GetCard(ctx context.Context, id string) (types.Card, error)
	ListCards(ctx context.Context, filter types.CardFilter) ([]types.Card, error)
	CardVariants(ctx context.Context, cardID string) ([]types.Variant, error)
	GetSet(ctx context.Context, id string) (types.Set, error)
	ListSets(ctx context.Context, seriesID string) ([]types.Set, error)
	GetSeries(ctx context.Context, id string) (types.Series, error)
	ListSeries(ctx context.Context) ([]types.Series, error)
	ListLookups(ctx context.Context, kind types.LookupKind) ([]types.Lookup, error)
	CardNames(ctx context.Context) ([]types.CardName, error)
	Counts(ctx context.Context) (map[string]int, error)
}

// Config configures the HTTP app.
type Config struct {
	DataDir     string // root holding cards/<id>.json for GET /card/:id
	CORSOrigins string
	Logger      *slog.Logger
	Version     string
}

// Server holds the dependencies shared by the handlers.
type Server struct {
	cfg     Config
	catalog Catalog
	log     *slog.Logger
	started time.Time
}

// New builds the fiber app with middleware and every route registered.
func New(cfg Config, catalog Catalog) *fiber.App {
	if cfg.CORSOrigins == "" {
		cfg.CORSOrigins = "*"
	}
	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		log:     logging.With(cfg.Logger, logging.TypeHTTP),
		started: time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:               "elestrals",
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
	}))
	app.Use(s.requestLogger())

	s.routes(app)
	return app
}

func (s *Server) routes(app *fiber.App) {
	app.Get("/", s.greeting)
	app.Get("/user/:id", s.echoUser)
	app.Post("/form", s.echoForm)
	app.Get("/card/:id", s.cardFile)
	app.Get("/health", s.health)

	api := app.Group("/api")
	api.Get("/cards", s.listCards)
	api.Get("/cards/:id", s.getCard)
	api.Get("/cards/:id/variants", s.cardVariants)
	api.Get("/sets", s.listSets)
	api.Get("/sets/:id", s.getSet)
	api.Get("/series", s.listSeries)
	api.Get("/series/:id", s.getSeries)
	api.Get("/lookups/:kind", s.listLookups)
	api.Get("/search", s.search)
	api.Get("/stats", s.stats)
}

// requestLogger logs one record per request. 4xx log at warn, 5xx at error.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Run the error handler now so the logged status is final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				c.Status(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		s.log.Log(c.UserContext(), level, "HTTP request processed",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("ip", c.IP()),
		)
		return err
	}
}

// apiError is the JSON body of every error response.
type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// badRequest marks an error as caused by client input.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func invalid(err error) error { return badRequest{err: err} }

// statusFor maps an error onto an HTTP status and a short message.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	var br badRequest
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, types.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	case errors.As(err, &br),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, types.ErrUnknownLookup):
		return fiber.StatusBadRequest, "bad request"
	}
	return fiber.StatusInternalServerError, "internal server error"
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	body := apiError{Error: msg}
	if code == fiber.StatusInternalServerError {
		s.log.Error("request failed", slog.String("path", c.Path()), logging.Err(err))
	} else if err.Error() != msg {
		body.Details = err.Error()
	}
	return c.Status(code).JSON(body)
}
