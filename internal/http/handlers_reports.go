package http

import (
	"context"
	"errors"
	"net/http"

	"salestats/internal/core"
	"salestats/internal/log"
	"salestats/internal/services"
)

// handleStatistics serves GET /statistics/{year}/{month}.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	year, yerr := parseIntParam(r.PathValue("year"))
	month, merr := parseIntParam(r.PathValue("month"))
	if yerr != nil || merr != nil {
		writeError(w, http.StatusBadRequest, msgInvalidYearMonth)
		return
	}

	stats, err := s.reports.Statistics(r.Context(), year, month)
	if err != nil {
		s.writeReportError(w, r, err, log.OpStatistics, msgInvalidYearMonth, year, month, false)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleBarChart serves GET /barchart/{month}[?year=YYYY].
func (s *Server) handleBarChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, log.OpBarChart, s.reports.BarChart)
}

// handlePieChart serves GET /piechart/{month}[?year=YYYY].
func (s *Server) handlePieChart(w http.ResponseWriter, r *http.Request) {
	s.serveChart(w, r, log.OpPieChart, s.reports.PieChart)
}

type chartFunc func(ctx context.Context, period core.Period) (map[string]int, error)

func (s *Server) serveChart(w http.ResponseWriter, r *http.Request, op string, chart chartFunc) {
	period, err := parseChartPeriod(r)
	if err != nil {
		msg := msgInvalidMonth
		var verr *services.ValidationError
		if errors.As(err, &verr) && verr.Field == "year" {
			msg = msgInvalidYear
		}
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	data, err := chart(r.Context(), period)
	if err != nil {
		s.writeReportError(w, r, err, op, msgInvalidMonth, period.Year, period.Month, period.AllYears)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// parseChartPeriod reads the month path value and the optional year query
// parameter. Without a year every year matches.
func parseChartPeriod(r *http.Request) (core.Period, error) {
	month, err := parseIntParam(r.PathValue("month"))
	if err != nil {
		return core.Period{}, &services.ValidationError{Field: "month", Err: core.ErrInvalidMonth}
	}

	values, ok := r.URL.Query()["year"]
	if !ok {
		return core.ForMonth(month), nil
	}
	year, err := parseIntParam(values[0])
	if err != nil {
		return core.Period{}, &services.ValidationError{Field: "year", Err: core.ErrInvalidYear}
	}
	return core.ForYearMonth(year, month), nil
}

// writeReportError maps service errors onto status codes. Validation errors
// get the route's fixed message, everything else the generic one.
func (s *Server) writeReportError(w http.ResponseWriter, r *http.Request, err error, op, invalidMsg string, year, month int, allYears bool) {
	if services.IsValidation(err) {
		writeError(w, http.StatusBadRequest, invalidMsg)
		return
	}

	fields := log.NewFields().WithPeriod(year, month, allYears)
	log.NewStructuredLogger(log.FromContext(r.Context())).
		LogError(r.Context(), "Report request failed", err, op, fields)
	writeError(w, http.StatusInternalServerError, msgFetchFailed)
}
