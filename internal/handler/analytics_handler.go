package handlers

import (
	"net/http"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"
)

type metricRow struct {
	Metric string `csv:"metric"`
	Value  int64  `csv:"value"`
}

func (h *Handlers) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.AnalyticsService.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch analytics")
		return
	}

	writeSuccess(w, map[string]interface{}{"analyticsData": analytics}, http.StatusOK)
}

// ExportAnalytics writes the summary as a metric,value CSV attachment.
func (h *Handlers) ExportAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.AnalyticsService.Summary(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Failed to fetch analytics")
		return
	}

	rows := []metricRow{
		{Metric: "users", Value: analytics.Users},
		{Metric: "products", Value: analytics.Products},
		{Metric: "blogs", Value: analytics.Blogs},
		{Metric: "featuredProducts", Value: analytics.FeaturedProducts},
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="analytics.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := gocsv.Marshal(rows, w); err != nil {
		h.Logger.Error("failed to write analytics csv", zap.Error(err))
	}
}
