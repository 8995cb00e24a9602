package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports"
)

// StatsService aggregates the manifest for reporting
type StatsService struct {
	store ports.ManifestStore
}

// NewStatsService creates a new stats service
func NewStatsService(store ports.ManifestStore) *StatsService {
	return &StatsService{store: store}
}

// Count is a label with a tally
type Count struct {
	Label string
	Value int
}

// Stats is the aggregate view of the manifest
type Stats struct {
	Total      int
	TotalBytes int64
	Series     int // distinct (category, section, name)
	ByCategory []Count
	BySection  []Count
	ByTag      []Count
	// BySectionCategory[section][category] -> count
	BySectionCategory map[string]map[domain.Category]int
	Latest            *domain.Asset
	Oldest            time.Time
}

// Execute computes stats over every record
func (s *StatsService) Execute(ctx context.Context) (*Stats, error) {
	assets, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	st := &Stats{
		Total:             len(assets),
		BySectionCategory: make(map[string]map[domain.Category]int),
	}

	categories := make(map[string]int)
	sections := make(map[string]int)
	tags := make(map[string]int)
	series := make(map[[3]string]bool)

	for i := range assets {
		a := &assets[i]
		categories[string(a.Category)]++
		sections[a.Section]++
		for _, t := range a.Tags {
			tags[t]++
		}
		series[[3]string{string(a.Category), a.Section, a.Name}] = true

		if st.BySectionCategory[a.Section] == nil {
			st.BySectionCategory[a.Section] = make(map[domain.Category]int)
		}
		st.BySectionCategory[a.Section][a.Category]++

		if info, err := os.Stat(a.Path); err == nil {
			st.TotalBytes += info.Size()
		}

		if st.Latest == nil || a.CreatedAt.After(st.Latest.CreatedAt) {
			st.Latest = a
		}
		if st.Oldest.IsZero() || a.CreatedAt.Before(st.Oldest) {
			st.Oldest = a.CreatedAt
		}
	}

	st.Series = len(series)
	st.ByCategory = sortedCounts(categories)
	st.BySection = sortedCounts(sections)
	st.ByTag = sortedCounts(tags)
	return st, nil
}

// sortedCounts orders by value descending, then label
func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Label: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Label < out[j].Label
	})
	return out
}
