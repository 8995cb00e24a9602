package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports/mocks"
)

func TestStatsService_Execute(t *testing.T) {
	stats, err := NewStatsService(listFixture()).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("expected 4 records, got %d", stats.Total)
	}
	if stats.Series != 3 {
		t.Errorf("expected 3 series, got %d", stats.Series)
	}

	wantCategories := []Count{{"table", 2}, {"figure", 1}, {"summary", 1}}
	if diff := cmp.Diff(wantCategories, stats.ByCategory); diff != "" {
		t.Errorf("category counts (-want +got):\n%s", diff)
	}

	// tags are counted as stored, so "DML" and "dml" stay separate
	wantTags := []Count{{"DML", 1}, {"dml", 1}, {"lstm", 1}, {"paper", 1}}
	if diff := cmp.Diff(wantTags, stats.ByTag); diff != "" {
		t.Errorf("tag counts (-want +got):\n%s", diff)
	}

	if got := stats.BySectionCategory["causal_inference"][domain.CategoryTable]; got != 2 {
		t.Errorf("expected 2 causal_inference tables, got %d", got)
	}
	if stats.Latest == nil || stats.Latest.ID != "bbb333" {
		t.Errorf("expected latest bbb333, got %+v", stats.Latest)
	}
	if !stats.Oldest.Equal(listBase.Add(-4 * time.Hour)) {
		t.Errorf("unexpected oldest %v", stats.Oldest)
	}
}

func TestStatsService_Empty(t *testing.T) {
	stats, err := NewStatsService(mocks.NewMockManifestStore()).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 0 || stats.Latest != nil || len(stats.ByCategory) != 0 {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}
