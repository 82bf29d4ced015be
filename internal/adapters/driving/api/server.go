// Package api exposes incident analysis over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/custodia-labs/incident-rag/internal/core/domain"
	"github.com/custodia-labs/incident-rag/internal/core/ports/driving"
	"github.com/custodia-labs/incident-rag/internal/logger"
)

// Defaults for Config.
const (
	DefaultAddr      = ":8080"
	DefaultBodyLimit = 64 << 20
	DefaultListLimit = 20
)

// Config configures the HTTP server.
type Config struct {
	// Version is reported by the health endpoint.
	Version string

	// BodyLimit caps a request body, uploads included.
	BodyLimit int

	// AccessLog enables fiber's request logger.
	AccessLog bool
}

// Server serves the analysis API. Analyses run one at a time.
type Server struct {
	app      *fiber.App
	analysis driving.AnalysisService
	results  driving.ResultService
	version  string

	mu sync.Mutex
}

// NewServer creates a server and registers its routes.
func NewServer(analysis driving.AnalysisService, results driving.ResultService, cfg Config) *Server {
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}

	s := &Server{
		analysis: analysis,
		results:  results,
		version:  cfg.Version,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "incident-rag",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  2 * time.Minute,
		ErrorHandler: errorHandler,
	})
	s.app.Use(recover.New())
	if cfg.AccessLog {
		s.app.Use(fiberlogger.New())
	}

	v1 := s.app.Group("/api/v1")
	v1.Get("/health", s.health)
	v1.Get("/questions", s.questions)
	v1.Post("/analyze", s.analyze)
	v1.Get("/results", s.listResults)
	v1.Get("/results/:id", s.getResult)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()
	logger.Info("HTTP API listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) questions(c fiber.Ctx) error {
	set := s.analysis.Questions()
	return c.JSON(fiber.Map{
		"name":      set.Name,
		"questions": set.Questions,
	})
}

func (s *Server) analyze(c fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected a multipart form with one or more files")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no files uploaded")
	}

	combine := false
	if v := c.FormValue("combine"); v != "" {
		combine, err = strconv.ParseBool(v)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "combine must be a boolean")
		}
	}

	raws := make([]domain.RawDocument, 0, len(headers))
	for _, fh := range headers {
		raw, err := readUpload(fh)
		if err != nil {
			return err
		}
		raws = append(raws, raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := s.analysis.AnalyzeRaw(c.Context(), raws, driving.AnalyzeOptions{Combine: combine})
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{
			"error":   err.Error(),
			"results": nonNil(results),
		})
	}
	return c.JSON(fiber.Map{"results": nonNil(results)})
}

func (s *Server) listResults(c fiber.Ctx) error {
	limit := DefaultListLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	results, err := s.results.List(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"results": nonNil(results)})
}

func (s *Server) getResult(c fiber.Ctx) error {
	result, err := s.results.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

func readUpload(fh *multipart.FileHeader) (domain.RawDocument, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return domain.RawDocument{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return domain.RawDocument{
		Name:     fh.Filename,
		MIMEType: fh.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}

func nonNil(results []domain.Result) []domain.Result {
	if results == nil {
		return []domain.Result{}
	}
	return results
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedDocument):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrRetriesExhausted), errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrAuthInvalid), errors.Is(err, domain.ErrProvider):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrEmbeddingUnavailable), errors.Is(err, domain.ErrCompletionUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c fiber.Ctx, err error) error {
	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
