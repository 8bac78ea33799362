package ai

import (
	"context"
	"time"

	"up2you.app/storefront/pkg/models"
)

// ReportResponse is the body returned for a generated report.
type ReportResponse struct {
	Status      string     `json:"status"`
	Data        ReportData `json:"data"`
	GeneratedAt time.Time  `json:"generated_at"`
	AIEnabled   bool       `json:"ai_enabled"`
}

type ReportData struct {
	Stats      *models.Stats `json:"stats"`
	LowStock   []models.Item `json:"low_stock"`
	AIInsights string        `json:"ai_insights,omitempty"`
	Summary    string        `json:"summary"`
	Error      string        `json:"error,omitempty"`
}

// GenerateInventoryReport wraps the figures and, when enabled, a model-written
// commentary. A failed completion is reported in Data.Error, not as an error.
func (s *Service) GenerateInventoryReport(ctx context.Context, stats *models.Stats, lowStock []models.Item, threshold int) *ReportResponse {
	response := &ReportResponse{
		Status:      "success",
		GeneratedAt: time.Now().UTC(),
		AIEnabled:   s.IsEnabled(),
		Data: ReportData{
			Stats:    stats,
			LowStock: lowStock,
			Summary:  "Raw inventory data (AI insights unavailable)",
		},
	}

	if !s.IsEnabled() {
		return response
	}

	insights, err := s.generateCompletion(ctx, InventoryReportSystemPrompt, formatInventoryPrompt(stats, lowStock, threshold))
	if err != nil {
		response.Data.Error = "AI analysis failed: " + err.Error()
		return response
	}
	response.Data.AIInsights = insights
	response.Data.Summary = "AI-generated inventory insights"
	return response
}
