package api

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"builderrisk/server/internal/comps"
	"builderrisk/server/internal/models"
	"builderrisk/server/internal/rentcast"
	"builderrisk/server/internal/report"
	"builderrisk/server/internal/risk"
)

// Resolver is the slice of the geocoding collaborator the handler
// needs.
type Resolver interface {
	ResolveAddress(ctx context.Context, address string) (*rentcast.ResolvedAddress, error)
}

type Handler struct {
	resolver     Resolver
	aggregator   *comps.Aggregator
	scorer       *risk.Scorer
	logger       *logrus.Logger
	displayLimit int
}

// AnalyzeRequest is the analysis input. Price and DaysOnMarket are
// optional; when omitted the subject falls back to comp-derived
// proxies.
type AnalyzeRequest struct {
	Address      string   `json:"address" binding:"required"`
	Price        *float64 `json:"price"`
	DaysOnMarket *int     `json:"days_on_market"`
	DisplayLimit *int     `json:"display_limit"`
}

func NewHandler(resolver Resolver, aggregator *comps.Aggregator, scorer *risk.Scorer, logger *logrus.Logger, displayLimit int) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		resolver:     resolver,
		aggregator:   aggregator,
		scorer:       scorer,
		logger:       logger,
		displayLimit: displayLimit,
	}
}

// Analyze runs one full analysis: resolve the address, gather comps,
// resolve the subject, score, and assemble the report. Scoring happens
// only here; the response is rendered by clients as-is.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse analyze request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	resolved, err := h.resolver.ResolveAddress(c.Request.Context(), req.Address)
	if err != nil {
		if errors.Is(err, rentcast.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Address could not be resolved"})
			return
		}
		h.logger.WithError(err).Error("Failed to resolve address")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Geocoding provider unavailable"})
		return
	}

	gathered, trace := h.aggregator.Gather(c.Request.Context(), resolved.Latitude, resolved.Longitude)

	// An on-market subject may appear in its own comp results; use its
	// listing data when the caller left price or DOM blank, and keep it
	// out of the comp set either way.
	price, dom := req.Price, req.DaysOnMarket
	compSet := gathered
	if match := comps.FindSubject(gathered, req.Address); match != nil {
		if price == nil {
			price = match.Price
		}
		if dom == nil {
			dom = match.DaysOnMarket
		}
		compSet = withoutRecord(gathered, match)
	}

	subject := risk.ResolveSubject(resolved.DisplayAddress, price, dom, compSet)
	assessment := h.scorer.Score(subject, compSet)
	advisory := risk.AdviceFor(assessment.Band)

	limit := h.displayLimit
	if req.DisplayLimit != nil && *req.DisplayLimit > 0 {
		limit = *req.DisplayLimit
	}

	c.JSON(http.StatusOK, report.Build(
		resolved.DisplayAddress, subject, compSet, trace, assessment, advisory, limit))
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func withoutRecord(records []models.ComparableRecord, drop *models.ComparableRecord) []models.ComparableRecord {
	out := make([]models.ComparableRecord, 0, len(records))
	for i := range records {
		if &records[i] == drop {
			continue
		}
		out = append(out, records[i])
	}
	return out
}
