package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

// IssueKind names a class of manifest/filesystem disagreement
type IssueKind string

const (
	IssueMissingFile   IssueKind = "missing_file"
	IssueUnreadable    IssueKind = "unreadable_file"
	IssuePathMismatch  IssueKind = "path_mismatch"
	IssueTabularDrift  IssueKind = "tabular_drift"
	IssueStrayFile     IssueKind = "stray_file"
	IssueLeftoverTemp  IssueKind = "leftover_temp"
	IssueMissingLayout IssueKind = "missing_directory"
)

// Issue is one finding of a verification run
type Issue struct {
	Kind   IssueKind
	Path   string
	Detail string
}

// VerifyReport summarizes a verification run
type VerifyReport struct {
	Records int
	Issues  []Issue
}

// OK reports whether nothing was found
func (r *VerifyReport) OK() bool {
	return len(r.Issues) == 0
}

// Count returns the number of issues of a kind
func (r *VerifyReport) Count(kind IssueKind) int {
	n := 0
	for _, is := range r.Issues {
		if is.Kind == kind {
			n++
		}
	}
	return n
}

// VerifyService checks that the manifest and the asset tree agree. It never
// modifies either.
type VerifyService struct {
	ws      *workspace.Workspace
	store   ports.ManifestStore
	tabular ports.TabularManifest
}

// NewVerifyService creates a verifier. tabular may be nil to skip the
// JSON/CSV comparison.
func NewVerifyService(ws *workspace.Workspace, store ports.ManifestStore, tabular ports.TabularManifest) *VerifyService {
	return &VerifyService{ws: ws, store: store, tabular: tabular}
}

// Execute runs every check. A corrupt manifest is returned as an error
// rather than an issue since nothing else can be checked without it.
func (s *VerifyService) Execute(ctx context.Context) (*VerifyReport, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := &VerifyReport{Records: len(records)}
	referenced := make(map[string]bool, len(records))

	for _, dir := range s.ws.Directories() {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			report.Issues = append(report.Issues, Issue{Kind: IssueMissingLayout, Path: dir, Detail: "run 'lxa init'"})
		}
	}

	for i := range records {
		a := &records[i]
		expected := s.ws.GetAssetPath(a.Category, a.Filename)
		referenced[filepath.Clean(a.Path)] = true
		referenced[expected] = true

		if filepath.Clean(a.Path) != expected {
			report.Issues = append(report.Issues, Issue{
				Kind:   IssuePathMismatch,
				Path:   a.Path,
				Detail: fmt.Sprintf("expected %s", expected),
			})
		}

		f, err := os.Open(a.Path)
		if err != nil {
			kind := IssueUnreadable
			if os.IsNotExist(err) {
				kind = IssueMissingFile
			}
			report.Issues = append(report.Issues, Issue{Kind: kind, Path: a.Path, Detail: a.Key().String()})
			continue
		}
		_ = f.Close()
	}

	if s.tabular != nil {
		issues, err := s.compareTabular(ctx, records)
		if err != nil {
			report.Issues = append(report.Issues, Issue{Kind: IssueTabularDrift, Path: s.ws.ManifestCSVPath(), Detail: err.Error()})
		}
		report.Issues = append(report.Issues, issues...)
	}

	for _, c := range domain.Categories {
		report.Issues = append(report.Issues, s.scanCategory(c, referenced)...)
	}

	return report, nil
}

func (s *VerifyService) compareTabular(ctx context.Context, records []domain.Asset) ([]Issue, error) {
	flat, err := s.tabular.LoadTabular(ctx)
	if err != nil {
		return nil, err
	}

	csvPath := s.ws.ManifestCSVPath()
	if len(flat) != len(records) {
		return []Issue{{
			Kind:   IssueTabularDrift,
			Path:   csvPath,
			Detail: fmt.Sprintf("tabular manifest has %d records, structured has %d", len(flat), len(records)),
		}}, nil
	}

	var issues []Issue
	for i := range records {
		if !sameRecord(&records[i], &flat[i]) {
			issues = append(issues, Issue{
				Kind:   IssueTabularDrift,
				Path:   csvPath,
				Detail: fmt.Sprintf("record %d (%s) differs", i, records[i].Key()),
			})
		}
	}
	return issues, nil
}

func sameRecord(a, b *domain.Asset) bool {
	return a.ID == b.ID &&
		a.Key() == b.Key() &&
		a.Filename == b.Filename &&
		a.Path == b.Path &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		slices.Equal(a.Tags, b.Tags) &&
		a.Description == b.Description &&
		a.SourceCodeReference == b.SourceCodeReference
}

func (s *VerifyService) scanCategory(c domain.Category, referenced map[string]bool) []Issue {
	dir := s.ws.CategoryPath(c)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var issues []Issue
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)

		if strings.HasPrefix(name, ".") {
			if strings.Contains(name, ".tmp-") || strings.HasSuffix(name, ".bak") {
				issues = append(issues, Issue{Kind: IssueLeftoverTemp, Path: path, Detail: "interrupted save"})
			}
			continue
		}

		if referenced[path] {
			continue
		}

		detail := "not named by lxa"
		if parsed, ok := domain.ParseFilename(name); ok {
			detail = fmt.Sprintf("untracked %s/%s v%s", parsed.Section, parsed.Name, parsed.Version)
		}
		issues = append(issues, Issue{Kind: IssueStrayFile, Path: path, Detail: detail})
	}
	return issues
}
