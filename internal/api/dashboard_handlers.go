package api

import (
	"net/http"
	"time"
)

// getDashboardStatsHandler returns the headline numbers for the dashboard
func (s *Server) getDashboardStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.financialService.GetDashboardStats(ctx)

	if err != nil {
		s.logger.Error("Failed to get dashboard stats", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve dashboard stats")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: stats})
}

// periodWindow maps a reporting period token to its default lookback window.
// The empty period defaults to weekly.
func periodWindow(period string) (string, time.Duration, bool) {
	switch period {
	case "daily":
		return "daily", 24 * time.Hour, true
	case "", "weekly":
		return "weekly", 7 * 24 * time.Hour, true
	case "monthly":
		return "monthly", 30 * 24 * time.Hour, true
	default:
		return "", 0, false
	}
}

// getRevenueSeriesHandler returns per-day revenue buckets. ?period=
// daily|weekly|monthly picks the default interval; ?start=&end= (RFC 3339)
// override it.
func (s *Server) getRevenueSeriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, window, ok := periodWindow(r.URL.Query().Get("period"))

	if !ok {
		s.respondWithError(w, http.StatusBadRequest, "Unknown period: "+r.URL.Query().Get("period"))
		return
	}

	start, end, err := parseInterval(r, window)

	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	points, err := s.financialService.GetRevenueSeries(ctx, start, end)

	if err != nil {
		s.logger.Error("Failed to get revenue series", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve revenue series")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: points})
}

// getFinancialSummaryHandler returns aggregate revenue for a reporting
// period. ?period=daily|weekly|monthly picks the interval; ?start=&end=
// overrides it.
func (s *Server) getFinancialSummaryHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period, window, ok := periodWindow(r.URL.Query().Get("period"))

	if !ok {
		s.respondWithError(w, http.StatusBadRequest, "Unknown period: "+r.URL.Query().Get("period"))
		return
	}

	start, end, err := parseInterval(r, window)

	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := s.financialService.GetSummary(ctx, period, start, end)

	if err != nil {
		s.logger.Error("Failed to get financial summary", "error", err)
		s.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve financial summary")
		return
	}

	s.respondWithJSON(w, http.StatusOK, ApiResponse{Success: true, Data: summary})
}

// parseInterval reads ?start= and ?end= (RFC 3339) from the request. Missing
// bounds default to [now - window, now].
func parseInterval(r *http.Request, window time.Duration) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	start := now.Add(-window)
	end := now

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)

		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		start = parsed
	}

	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)

		if err != nil {
			return time.Time{}, time.Time{}, err
		}

		end = parsed
	}

	return start, end, nil
}
