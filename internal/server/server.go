// Package server exposes the dashboard's read-only JSON API. Reports are
// recomputed on request; there is no push channel and no cache to
// invalidate.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"CoinPulse/internal/reporter"
	"CoinPulse/internal/store"
)

// Server serves price history and on-demand indicator reports.
type Server struct {
	store    store.Store
	reporter *reporter.Reporter
	engine   *gin.Engine
	httpSrv  *http.Server
}

// New creates the API server and registers its routes.
func New(st store.Store, rep *reporter.Reporter, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	s := &Server{
		store:    st,
		reporter: rep,
		engine:   gin.Default(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/symbols", s.getSymbols)
	s.engine.GET("/api/latest", s.getLatest)
	s.engine.GET("/api/prices/:symbol", s.getPrices)
	s.engine.GET("/api/report/:symbol", s.getReport)
	s.engine.GET("/api/metrics/:symbol", s.getMetrics)
}

// Start begins serving. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.httpSrv = &http.Server{Addr: addr, Handler: s.engine}
	logrus.Infof("dashboard API listening on %s", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) getHealth(c *gin.Context) {
	symbols, err := s.store.Symbols()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "symbols": len(symbols)})
}

func (s *Server) getSymbols(c *gin.Context) {
	symbols, err := s.store.Symbols()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"symbols": symbols})
}

func (s *Server) getLatest(c *gin.Context) {
	latest, err := s.store.Latest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": latest})
}

func (s *Server) getPrices(c *gin.Context) {
	symbol := c.Param("symbol")
	days := 30
	if v := c.Query("days"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = d
	}

	now := time.Now().UTC()
	series, err := s.store.Series(symbol, now.AddDate(0, 0, -days), now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"symbol": symbol,
		"days":   days,
		"count":  len(series),
		"prices": series,
	})
}

func (s *Server) getReport(c *gin.Context) {
	symbol := c.Param("symbol")
	report, err := s.reporter.ReportFor(symbol, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// Unavailable metrics render as null: "not enough data" is a display
	// state, not an error.
	c.JSON(http.StatusOK, report)
}

func (s *Server) getMetrics(c *gin.Context) {
	symbol := c.Param("symbol")
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	rows, err := s.store.RecentMetrics(symbol, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if rows == nil {
		rows = []store.MetricRow{}
	}
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "metrics": rows})
}
