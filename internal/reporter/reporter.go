// Package reporter runs the indicator engine over stored series. Reports
// are recomputed on demand; nothing is cached.
package reporter

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"CoinPulse/internal/analytics"
	"CoinPulse/internal/model"
	"CoinPulse/internal/store"
)

// Reporter reads series from storage, computes reports, and writes the
// flattened metrics back through the sink.
type Reporter struct {
	Store        store.Store
	Windows      []int
	LookbackDays int
}

// New creates a Reporter with the configured moving-average windows and
// series lookback.
func New(st store.Store, windows []int, lookbackDays int) *Reporter {
	if len(windows) == 0 {
		windows = analytics.DefaultWindows
	}
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &Reporter{Store: st, Windows: windows, LookbackDays: lookbackDays}
}

// ReportFor computes one symbol's report at the given reference instant.
// A symbol with no stored data yields a report whose metrics are all
// unavailable, not an error.
func (r *Reporter) ReportFor(symbol string, now time.Time) (*model.Report, error) {
	since := now.AddDate(0, 0, -r.LookbackDays)
	series, err := r.Store.Series(symbol, since, now)
	if err != nil {
		return nil, fmt.Errorf("load series for %s: %w", symbol, err)
	}
	report, err := analytics.ComputeReport(series, now, r.Windows)
	if err != nil {
		return nil, fmt.Errorf("compute report for %s: %w", symbol, err)
	}
	report.Symbol = symbol
	return report, nil
}

// RefreshAll recomputes and persists every symbol's report. Per-symbol
// failures are logged and skipped so one bad series cannot starve the rest.
// Returns the number of symbols refreshed.
func (r *Reporter) RefreshAll(now time.Time) int {
	symbols, err := r.Store.Symbols()
	if err != nil {
		logrus.Errorf("list symbols: %v", err)
		return 0
	}

	refreshed := 0
	for _, symbol := range symbols {
		report, err := r.ReportFor(symbol, now)
		if err != nil {
			logrus.Errorf("refresh %s: %v", symbol, err)
			continue
		}
		if err := r.Store.WriteMetrics(symbol, report.Flatten(), now); err != nil {
			logrus.Errorf("persist metrics for %s: %v", symbol, err)
			continue
		}
		refreshed++
	}
	logrus.Infof("analytics refreshed for %d/%d symbols", refreshed, len(symbols))
	return refreshed
}
