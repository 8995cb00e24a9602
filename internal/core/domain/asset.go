package domain

import (
	"fmt"
	"strings"
	"time"
)

// Category identifies the kind of artifact and fixes where it is stored
type Category string

const (
	CategoryFigure       Category = "figure"
	CategoryTable        Category = "table"
	CategoryDataSnapshot Category = "data_snapshot"
	CategoryModel        Category = "model"
	CategorySummary      Category = "summary"
)

// Categories lists every category in layout order
var Categories = []Category{
	CategoryFigure,
	CategoryTable,
	CategoryDataSnapshot,
	CategoryModel,
	CategorySummary,
}

var categoryDirs = map[Category]string{
	CategoryFigure:       "figures",
	CategoryTable:        "tables",
	CategoryDataSnapshot: "data_snapshots",
	CategoryModel:        "models",
	CategorySummary:      "summaries",
}

var categoryExts = map[Category]string{
	CategoryFigure:       "png",
	CategoryTable:        "csv",
	CategoryDataSnapshot: "csv",
	CategoryModel:        "gob",
	CategorySummary:      "json",
}

// ParseCategory accepts the canonical name plus a few plural/short aliases
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "figure", "figures", "fig":
		return CategoryFigure, nil
	case "table", "tables", "tab":
		return CategoryTable, nil
	case "data_snapshot", "data_snapshots", "snapshot", "snapshots", "data":
		return CategoryDataSnapshot, nil
	case "model", "models":
		return CategoryModel, nil
	case "summary", "summaries":
		return CategorySummary, nil
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrInvalidInput, s)
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	_, ok := categoryDirs[c]
	return ok
}

// Dir returns the storage subdirectory for the category
func (c Category) Dir() string {
	return categoryDirs[c]
}

// Extension returns the file extension (without dot) for the category
func (c Category) Extension() string {
	return categoryExts[c]
}

// Key is the identity of an asset in the manifest
type Key struct {
	Category Category
	Section  string
	Name     string
	Version  Version
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s@%s", k.Category, k.Section, k.Name, k.Version)
}

// Asset is a single registered artifact. The JSON field set is part of the
// on-disk manifest format.
type Asset struct {
	ID                  string    `json:"id"`
	Category            Category  `json:"category"`
	Section             string    `json:"section"`
	Name                string    `json:"name"`
	Version             Version   `json:"version"`
	Filename            string    `json:"filename"`
	Path                string    `json:"path"`
	CreatedAt           time.Time `json:"created_at"`
	Tags                []string  `json:"tags"`
	Description         string    `json:"description"`
	SourceCodeReference string    `json:"source_code_reference"`
}

// Key returns the manifest identity of the asset
func (a *Asset) Key() Key {
	return Key{Category: a.Category, Section: a.Section, Name: a.Name, Version: a.Version}
}

// SameSeries reports whether two assets differ at most by version
func (a *Asset) SameSeries(other *Asset) bool {
	return a.Category == other.Category && a.Section == other.Section && a.Name == other.Name
}

// HasTag checks if the asset carries a specific tag
func (a *Asset) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// GetTagsString returns tags as a comma-separated string
func (a *Asset) GetTagsString() string {
	if len(a.Tags) == 0 {
		return ""
	}
	return strings.Join(a.Tags, ", ")
}

// LatexSnippet returns the LaTeX needed to cite the asset from a document
// whose TEXINPUTS includes the category directories.
func (a *Asset) LatexSnippet() string {
	switch a.Category {
	case CategoryFigure:
		return fmt.Sprintf("\\includegraphics[width=0.8\\linewidth]{%s}", a.Filename)
	case CategoryTable, CategoryDataSnapshot:
		return fmt.Sprintf("\\csvautotabular{%s}", a.Filename)
	default:
		return fmt.Sprintf("\\texttt{%s}", strings.ReplaceAll(a.Filename, "_", "\\_"))
	}
}

// TagSeparator joins tags in the tabular manifest, so no tag may contain it
const TagSeparator = ";"

// NormalizeTags trims, drops empties and removes case-insensitive duplicates
// while keeping first-seen order. A tag containing TagSeparator is split
// into its parts.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		for _, t := range strings.Split(raw, TagSeparator) {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			lower := strings.ToLower(t)
			if seen[lower] {
				continue
			}
			seen[lower] = true
			out = append(out, t)
		}
	}
	return out
}
