/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mspranav/azuredevops-swe-agent/pipeline"
	"github.com/mspranav/azuredevops-swe-agent/store"
)

// TaskProcessor runs the pipeline for a task.
type TaskProcessor interface {
	ProcessTask(ctx context.Context, taskID string) pipeline.Result
}

// Config holds HTTP server configuration.
type Config struct {
	Addr   string
	APIKey string
}

// Server exposes the agent's HTTP API.
type Server struct {
	echo      *echo.Echo
	processor TaskProcessor
	runs      *store.Store
	config    Config
}

// NewServer creates the HTTP server.
func NewServer(processor TaskProcessor, runs *store.Store, cfg Config) (*Server, error) {
	if processor == nil {
		return nil, fmt.Errorf("task processor must not be nil")
	}
	if runs == nil {
		return nil, fmt.Errorf("run store must not be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key must not be empty")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			clog.FromContext(c.Request().Context()).
				With("method", c.Request().Method).
				With("uri", c.Request().RequestURI).
				With("status", c.Response().Status).
				With("duration", time.Since(start)).
				Infof("http request")
			return err
		}
	})

	s := &Server{
		echo:      e,
		processor: processor,
		runs:      runs,
		config:    cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1", s.requireAPIKey)
	v1.POST("/tasks/:id/process", s.handleProcessTask)
	v1.GET("/runs", s.handleListRuns)
	v1.GET("/runs/:id", s.handleGetRun)
	v1.DELETE("/runs/:id", s.handleDeleteRun)
}

// requireAPIKey rejects requests whose X-Api-Key header does not match the
// configured key.
func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("X-Api-Key") != s.config.APIKey {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid API key")
		}
		return next(c)
	}
}

// Start serves until the listener fails or Shutdown is called. A graceful
// shutdown is reported as success, not as an error.
func (s *Server) Start() error {
	if err := s.echo.Start(s.config.Addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
