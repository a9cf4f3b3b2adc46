package calculation

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ukpaye/payroll-engine/internal/config"
	"github.com/ukpaye/payroll-engine/internal/domain"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// Pay dates inside each tax year of the embedded data
var (
	payDate2324 = date(2023, 6, 30)
	payDate2425 = date(2024, 6, 28)
	payDate2526 = date(2025, 6, 30)
)

func testFactory(t *testing.T) *Factory {
	t.Helper()
	rd, err := config.DefaultReferenceData()
	require.NoError(t, err)
	return NewFactory(rd, nil)
}

// flatThreshold builds a threshold entry with the same value for every frequency
func flatThreshold(v string) domain.ThresholdEntry {
	d := dec(v)
	return domain.ThresholdEntry{PerWeek: d, PerTwoWeeks: d, PerFourWeeks: d, PerMonth: d, PerQuarter: d, PerHalfYear: d, PerYear: d}
}

// recordingLogger keeps every line logged through it
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+": "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debugf(format string, args ...any) { l.add("DEBUG", format, args...) }
func (l *recordingLogger) Infof(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *recordingLogger) Warnf(format string, args ...any)  { l.add("WARN", format, args...) }
func (l *recordingLogger) Errorf(format string, args ...any) { l.add("ERROR", format, args...) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if len(line) > len(level) && line[:len(level)] == level {
			n++
		}
	}
	return n
}
