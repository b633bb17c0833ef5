package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/phraseserve/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

// SuggestionsRequest is the JSON body of POST /v1/suggestions and POST /v1/index
type SuggestionsRequest struct {
	Tokens    []string `json:"tokens"`
	StopWords []string `json:"stop_words,omitempty"`
	Index     bool     `json:"index,omitempty"`
}

// SuggestionsResponse is the JSON answer for suggestion and completion calls
type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
	Count       int      `json:"count"`
	TimeTaken   int64    `json:"time_us"`
}

// IndexStatus is the JSON answer for POST /v1/index
type IndexStatus struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

// HTTPError represents an API error
type HTTPError struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// HTTPServer exposes the Service over HTTP
type HTTPServer struct {
	service *Service
}

// NewHTTPServer creates the HTTP front of service
func NewHTTPServer(service *Service) *HTTPServer {
	return &HTTPServer{service: service}
}

// Register mounts the routes on e
func (h *HTTPServer) Register(e *echo.Echo) {
	e.GET("/health", h.handleHealth)
	e.POST("/v1/suggestions", h.handleSuggestions)
	e.POST("/v1/index", h.handleIndex)
	e.DELETE("/v1/index", h.handleResetIndex)
	e.GET("/v1/complete", h.handleComplete)
}

// NewEcho returns an echo instance with middleware and routes in place
func (h *HTTPServer) NewEcho() *echo.Echo {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger.New("http")))
	h.Register(e)
	return e
}

// ListenAndServe serves on addr until ctx is cancelled
func (h *HTTPServer) ListenAndServe(ctx context.Context, addr string) error {
	log.Infof("HTTP API listening on %s", addr)
	sc := echo.StartConfig{
		Address: addr,
		BeforeServeFunc: func(srv *http.Server) error {
			srv.ReadHeaderTimeout = 10 * time.Second
			return nil
		},
	}
	return sc.Start(ctx, h.NewEcho())
}

func requestLogger(l *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			start := time.Now()
			err := next(c)
			l.Debug("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"took", time.Since(start))
			return err
		}
	}
}

func (h *HTTPServer) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPServer) handleSuggestions(c *echo.Context) error {
	req, err := decodeJSON[SuggestionsRequest](c.Request().Body)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid JSON request: "+err.Error())
	}

	suggestions, elapsed, err := h.service.Suggest(req.Tokens, req.StopWords)
	if err != nil {
		log.Errorf("Building suggestions: %v", err)
		return writeError(c, http.StatusInternalServerError, err.Error())
	}
	if req.Index {
		h.service.Index(suggestions)
	}

	return c.JSON(http.StatusOK, SuggestionsResponse{
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (h *HTTPServer) handleIndex(c *echo.Context) error {
	req, err := decodeJSON[SuggestionsRequest](c.Request().Body)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid JSON request: "+err.Error())
	}

	suggestions, _, err := h.service.Suggest(req.Tokens, req.StopWords)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, err.Error())
	}
	added, total := h.service.Index(suggestions)
	return c.JSON(http.StatusOK, IndexStatus{Added: added, Total: total})
}

func (h *HTTPServer) handleResetIndex(c *echo.Context) error {
	h.service.ResetIndex()
	return c.NoContent(http.StatusNoContent)
}

func (h *HTTPServer) handleComplete(c *echo.Context) error {
	prefix := c.QueryParam("prefix")
	if prefix == "" {
		return writeError(c, http.StatusBadRequest, "missing 'prefix' parameter")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return writeError(c, http.StatusBadRequest, "invalid 'limit' parameter")
		}
		limit = n
	}

	results, elapsed := h.service.Complete(prefix, limit)
	return c.JSON(http.StatusOK, SuggestionsResponse{
		Suggestions: results,
		Count:       len(results),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func writeError(c *echo.Context, status int, msg string) error {
	return c.JSON(status, HTTPError{Error: msg, Status: status})
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
