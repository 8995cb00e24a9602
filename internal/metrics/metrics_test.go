package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveSave(domain.CategoryFigure, 20*time.Millisecond)
	m.ObserveSave(domain.CategoryFigure, 5*time.Millisecond)
	m.ObserveSave(domain.CategoryTable, time.Millisecond)
	m.ObserveFailure(domain.KindManifestCorruption)
	m.SetRecords(3)

	if got := testutil.ToFloat64(m.saved.WithLabelValues("figure")); got != 2 {
		t.Errorf("saved{figure} = %v", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("manifest_corruption")); got != 1 {
		t.Errorf("failures = %v", got)
	}
	if got := testutil.ToFloat64(m.records); got != 3 {
		t.Errorf("records = %v", got)
	}
	if got := testutil.CollectAndCount(m.duration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSave(domain.CategoryModel, time.Second)
	m.ObserveFailure(domain.KindIOFailure)
	m.SetRecords(1)
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "x.prom")); err != nil {
		t.Errorf("nil WriteTextfile: %v", err)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveSave(domain.CategorySummary, time.Millisecond)

	path := filepath.Join(t.TempDir(), "lxa.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `lxa_assets_saved_total{category="summary"} 1`) {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}
