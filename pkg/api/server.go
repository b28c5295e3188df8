// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package api exposes the thin HTTP surface over the anomaly engine.
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adxyz/adpulse/pkg/anomaly"
	"github.com/adxyz/adpulse/pkg/log"
	"github.com/adxyz/adpulse/pkg/metric"
	"github.com/adxyz/adpulse/pkg/source"
)

const defaultBaselineDays = 7

// Server wires the analyzer, the row source and the service metrics
// behind the HTTP API.
type Server struct {
	log      log.Logger
	metrics  *metric.Metrics
	analyzer *anomaly.Analyzer
	source   source.Source
	env      string
}

// NewServer creates a server. src may be nil when every request
// carries its rows inline.
func NewServer(logger log.Logger, m *metric.Metrics, src source.Source, env string) *Server {
	return &Server{
		log:      logger,
		metrics:  m,
		analyzer: anomaly.NewAnalyzer(logger),
		source:   src,
		env:      env,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	if s.env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		s.metrics.GetGatherer(),
		promhttp.HandlerOpts{},
	)))

	api := router.Group("/api/v1")
	{
		api.POST("/analysis", s.handleAnalysis)
		api.GET("/metrics/catalog", s.handleMetricCatalog)
	}

	return router
}

// AnalysisRequest is the analysis API payload. Rows may be supplied
// inline; otherwise the configured source is queried for the target
// day and the preceding baseline window.
type AnalysisRequest struct {
	TargetDate   string           `json:"targetDate" binding:"required"`
	BaselineDays int              `json:"baselineDays"`
	CurrentRows  []anomaly.RawRow `json:"currentRows"`
	BaselineRows []anomaly.RawRow `json:"baselineRows"`
}

// AnalysisResponse wraps one analysis run.
type AnalysisResponse struct {
	RunID        string                          `json:"runId"`
	TargetDate   string                          `json:"targetDate"`
	BaselineDays int                             `json:"baselineDays"`
	Metrics      map[string]anomaly.MetricResult `json:"metrics"`
	Anomalies    []anomaly.AnomalyEntry          `json:"anomalies"`
}

func (s *Server) handleAnalysis(c *gin.Context) {
	start := time.Now()

	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.metrics.RequestsProcessed.WithLabelValues("POST", "400").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetDay, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		s.metrics.RequestsProcessed.WithLabelValues("POST", "400").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetDate must be YYYY-MM-DD"})
		return
	}

	baselineDays := req.BaselineDays
	if baselineDays <= 0 {
		baselineDays = defaultBaselineDays
	}

	currentRows := req.CurrentRows
	baselineRows := req.BaselineRows
	if len(currentRows) == 0 && s.source != nil {
		currentRows, err = s.source.FetchDay(c.Request.Context(), targetDay)
		if err != nil {
			s.metrics.RequestsProcessed.WithLabelValues("POST", "502").Inc()
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		baselineRows, err = s.source.FetchWindow(c.Request.Context(),
			targetDay.AddDate(0, 0, -baselineDays), targetDay)
		if err != nil {
			s.metrics.RequestsProcessed.WithLabelValues("POST", "502").Inc()
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
	}

	analysis, err := s.analyzer.Analyze(currentRows, baselineRows)
	if err != nil {
		s.metrics.AnalysisFailures.Inc()
		s.metrics.RequestsProcessed.WithLabelValues("POST", "422").Inc()
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	s.metrics.AnalysesRun.Inc()
	s.metrics.RowsAggregated.Add(float64(len(currentRows) + len(baselineRows)))
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	for _, entry := range analysis.Anomalies {
		s.metrics.AnomaliesDetected.WithLabelValues(string(entry.Result.Severity)).Inc()
	}
	s.metrics.RequestsProcessed.WithLabelValues("POST", "200").Inc()

	runID := uuid.NewString()
	s.log.Info("analysis served",
		log.String("runId", runID),
		log.String("targetDate", req.TargetDate),
		log.Int("anomalies", len(analysis.Anomalies)),
		log.Duration("elapsed", time.Since(start)),
	)

	c.JSON(http.StatusOK, AnalysisResponse{
		RunID:        runID,
		TargetDate:   req.TargetDate,
		BaselineDays: analysis.BaselineDays,
		Metrics:      analysis.Metrics,
		Anomalies:    analysis.Anomalies,
	})
}

// handleMetricCatalog lists the metric definitions so UI clients don't
// hard-code the table.
func (s *Server) handleMetricCatalog(c *gin.Context) {
	type catalogEntry struct {
		Name          string `json:"name"`
		Type          string `json:"type"`
		LowerIsBetter bool   `json:"lowerIsBetter"`
	}

	defs := anomaly.Metrics()
	out := make([]catalogEntry, 0, len(defs))
	for _, def := range defs {
		out = append(out, catalogEntry{
			Name:          def.Name,
			Type:          string(def.Type),
			LowerIsBetter: def.LowerIsBetter,
		})
	}

	s.metrics.RequestsProcessed.WithLabelValues("GET", "200").Inc()
	c.JSON(http.StatusOK, gin.H{"metrics": out})
}
