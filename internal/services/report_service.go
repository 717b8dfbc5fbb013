package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salestats/internal/core"
	"salestats/internal/log"
	"salestats/internal/source"
)

// DefaultFetchTimeout bounds a single record source call.
const DefaultFetchTimeout = 10 * time.Second

var ErrNoSource = errors.New("no record source configured")

// ReportService computes sales reports over the records of a source. It holds
// no per-request state; every call fetches the records afresh.
type ReportService struct {
	source       source.TransactionLister
	logger       *log.Logger
	fetchTimeout time.Duration
}

func NewReportService(src source.TransactionLister, logger *log.Logger, fetchTimeout time.Duration) *ReportService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &ReportService{
		source:       src,
		logger:       logger.WithComponent(log.ComponentReport),
		fetchTimeout: fetchTimeout,
	}
}

// Statistics returns the sales summary of a single year and month.
func (s *ReportService) Statistics(ctx context.Context, year, month int) (core.Statistics, error) {
	period := core.ForYearMonth(year, month)
	txs, err := s.load(ctx, log.OpStatistics, period)
	if err != nil {
		return core.Statistics{}, err
	}
	return core.Summarize(year, month, txs), nil
}

// BarChart returns the price histogram of the period. All ten buckets are
// present in the result.
func (s *ReportService) BarChart(ctx context.Context, period core.Period) (map[string]int, error) {
	txs, err := s.load(ctx, log.OpBarChart, period)
	if err != nil {
		return nil, err
	}
	return core.PriceHistogram(txs), nil
}

// PieChart returns the number of transactions per category in the period.
func (s *ReportService) PieChart(ctx context.Context, period core.Period) (map[string]int, error) {
	txs, err := s.load(ctx, log.OpPieChart, period)
	if err != nil {
		return nil, err
	}
	return core.CategoryTally(txs), nil
}

// load fetches, normalizes and filters the records for period.
func (s *ReportService) load(ctx context.Context, op string, period core.Period) (txs []core.Transaction, err error) {
	if err := period.Validate(); err != nil {
		return nil, &ValidationError{Field: "month", Err: err}
	}
	if s.source == nil {
		return nil, &UpstreamError{Op: op, Err: ErrNoSource}
	}

	defer func() {
		if r := recover(); r != nil {
			txs = nil
			err = &UpstreamError{Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	cctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	start := time.Now()
	raws, err := s.source.ListTransactions(cctx)
	if err != nil {
		return nil, &UpstreamError{Op: op, Err: fmt.Errorf("list transactions: %w", err)}
	}

	all, rejected := core.Normalize(raws)
	matched := period.Filter(all)

	fields := log.NewFields().
		WithOperation(op).
		WithPeriod(period.Year, period.Month, period.AllYears).
		WithCounts(len(raws), len(matched), len(rejected))
	fields[log.FieldDuration] = time.Since(start).Milliseconds()

	logger := s.loggerFor(ctx)
	if len(rejected) > 0 {
		logger.WarnContext(ctx, "Skipped invalid transactions",
			append(fields.ToSlice(), "first_reason", rejected[0].Reason.Error())...)
	} else {
		logger.DebugContext(ctx, "Report data loaded", fields.ToSlice()...)
	}
	return matched, nil
}

// loggerFor prefers the request-scoped logger so records carry the request ID.
func (s *ReportService) loggerFor(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(log.LoggerContextKey).(*log.Logger); ok {
		return l.WithComponent(log.ComponentReport)
	}
	return s.logger
}
