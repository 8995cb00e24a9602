package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports"
)

// ListService handles listing and filtering registered assets
type ListService struct {
	store ports.ManifestStore
}

// NewListService creates a new list service
func NewListService(store ports.ManifestStore) *ListService {
	return &ListService{
		store: store,
	}
}

// ListRequest represents a request to list assets. Empty filters match all.
type ListRequest struct {
	Category domain.Category // Filter by category (optional)
	Section  string          // Filter by section (optional, exact after sanitizing)
	Tag      string          // Filter by tag (optional, case-insensitive)
	SortBy   string          // "", "created", "name", "section", "version" ("" keeps manifest order)
	Reverse  bool            // Reverse sort order
}

// ListResponse represents the response from listing assets
type ListResponse struct {
	Assets []domain.Asset
	Total  int
}

// Execute lists assets with optional filtering and sorting
func (s *ListService) Execute(ctx context.Context, req ListRequest) (*ListResponse, error) {
	assets, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	// sections are stored sanitized; one that sanitizes to nothing still filters
	if s := domain.Sanitize(req.Section); s != "" {
		req.Section = s
	}

	filtered := make([]domain.Asset, 0, len(assets))
	for i := range assets {
		if matches(&assets[i], req) {
			filtered = append(filtered, assets[i])
		}
	}

	sortAssets(filtered, req.SortBy, req.Reverse)

	return &ListResponse{
		Assets: filtered,
		Total:  len(filtered),
	}, nil
}

func matches(a *domain.Asset, req ListRequest) bool {
	if req.Category != "" && a.Category != req.Category {
		return false
	}
	if req.Section != "" && a.Section != req.Section {
		return false
	}
	if req.Tag != "" && !a.HasTag(req.Tag) {
		return false
	}
	return true
}

func sortAssets(assets []domain.Asset, sortBy string, reverse bool) {
	var less func(a, b *domain.Asset) bool
	switch sortBy {
	case "created", "date":
		less = func(a, b *domain.Asset) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "name":
		less = func(a, b *domain.Asset) bool {
			if !strings.EqualFold(a.Name, b.Name) {
				return strings.ToLower(a.Name) < strings.ToLower(b.Name)
			}
			return a.Version.Less(b.Version)
		}
	case "section":
		less = func(a, b *domain.Asset) bool {
			if a.Section != b.Section {
				return a.Section < b.Section
			}
			return a.Name < b.Name
		}
	case "version":
		less = func(a, b *domain.Asset) bool { return a.Version.Less(b.Version) }
	default:
		if reverse {
			for i, j := 0, len(assets)-1; i < j; i, j = i+1, j-1 {
				assets[i], assets[j] = assets[j], assets[i]
			}
		}
		return
	}

	sort.SliceStable(assets, func(i, j int) bool {
		if reverse {
			return less(&assets[j], &assets[i])
		}
		return less(&assets[i], &assets[j])
	})
}

// Get resolves an asset by id, unique id prefix, or filename
func (s *ListService) Get(ctx context.Context, ref string) (*domain.Asset, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty asset reference", domain.ErrInvalidInput)
	}

	assets, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	var prefixMatches []int
	for i := range assets {
		if assets[i].ID == ref || assets[i].Filename == ref {
			return &assets[i], nil
		}
		if strings.HasPrefix(assets[i].ID, ref) {
			prefixMatches = append(prefixMatches, i)
		}
	}

	switch len(prefixMatches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, ref)
	case 1:
		return &assets[prefixMatches[0]], nil
	}
	return nil, fmt.Errorf("%w: id prefix %q is ambiguous (%d matches)", domain.ErrInvalidInput, ref, len(prefixMatches))
}

// Versions returns every version of one series, oldest first
func (s *ListService) Versions(ctx context.Context, category domain.Category, section, name string) ([]domain.Asset, error) {
	assets, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	section, name = domain.Sanitize(section), domain.Sanitize(name)
	var series []domain.Asset
	for _, a := range assets {
		if a.Category == category && a.Section == section && a.Name == name {
			series = append(series, a)
		}
	}
	sortAssets(series, "version", false)
	return series, nil
}

// SearchRequest represents a search query
type SearchRequest struct {
	Query string
}

// SearchResponse represents search results
type SearchResponse struct {
	Assets []domain.Asset
	Total  int
}

// Search performs fuzzy search on assets
func (s *ListService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	assets, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}

	if strings.TrimSpace(req.Query) == "" {
		return &SearchResponse{
			Assets: assets,
			Total:  len(assets),
		}, nil
	}

	found := s.fuzzySearch(assets, req.Query)

	return &SearchResponse{
		Assets: found,
		Total:  len(found),
	}, nil
}

// fuzzyMatch represents a scored match
type fuzzyMatch struct {
	asset domain.Asset
	score int
}

// fuzzySearch matches names, sections, descriptions and tags with scoring
func (s *ListService) fuzzySearch(assets []domain.Asset, query string) []domain.Asset {
	query = strings.TrimSpace(query)

	var found []fuzzyMatch

	for _, asset := range assets {
		// Name is the strongest signal
		if score := fuzzyMatchScore(asset.Name, query); score > 0 {
			found = append(found, fuzzyMatch{asset: asset, score: score + 1000})
			continue
		}

		if score := fuzzyMatchScore(asset.Section, query); score > 0 {
			found = append(found, fuzzyMatch{asset: asset, score: score + 500})
			continue
		}

		matched := false
		for _, tag := range asset.Tags {
			if score := fuzzyMatchScore(tag, query); score > 0 {
				found = append(found, fuzzyMatch{asset: asset, score: score + 200})
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		// descriptions are prose, only substring hits count
		if strings.Contains(strings.ToLower(asset.Description), strings.ToLower(query)) {
			found = append(found, fuzzyMatch{asset: asset, score: 100})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].score > found[j].score
	})

	result := make([]domain.Asset, len(found))
	for i, m := range found {
		result[i] = m.asset
	}

	return result
}

// fuzzyMatchScore calculates a score for fuzzy matching query against text
// Returns 0 if no match, higher scores for better matches
func fuzzyMatchScore(text, query string) int {
	if text == "" || query == "" {
		return 0
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if text == query {
		return 10000
	}

	if textLower == queryLower {
		return 9000
	}

	if strings.Contains(textLower, queryLower) {
		score := 5000
		if strings.HasPrefix(textLower, queryLower) {
			score += 2000
		}
		return score
	}

	// Character-by-character subsequence matching
	score := 0
	textRunes := []rune(textLower)
	queryRunes := []rune(queryLower)

	queryIdx := 0
	consecutive := 0
	lastMatchIdx := -1

	for textIdx := 0; textIdx < len(textRunes) && queryIdx < len(queryRunes); textIdx++ {
		if textRunes[textIdx] != queryRunes[queryIdx] {
			continue
		}
		score += 100

		if textIdx == lastMatchIdx+1 {
			consecutive++
			score += consecutive * 50
		} else {
			consecutive = 0
		}

		// word boundary; asset names are snake_case
		if textIdx == 0 || unicode.IsSpace(textRunes[textIdx-1]) || textRunes[textIdx-1] == '_' || textRunes[textIdx-1] == '-' {
			score += 200
		}

		lastMatchIdx = textIdx
		queryIdx++
	}

	if queryIdx != len(queryRunes) {
		return 0
	}

	// Penalty for gaps between matches
	if lastMatchIdx >= 0 {
		span := lastMatchIdx + 1
		score -= (span - len(queryRunes)) * 10
	}

	if score <= 0 {
		return 1
	}
	return score
}
