package repository

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

func newTestRepo(t *testing.T) (*FileManifestRepository, *workspace.Workspace) {
	t.Helper()
	root := t.TempDir()
	ws := &workspace.Workspace{
		RootPath:      root,
		ManifestsPath: filepath.Join(root, "manifests"),
	}
	require.NoError(t, ws.Initialize())
	return NewFileManifestRepository(ws), ws
}

func sampleAssets(ws *workspace.Workspace) []domain.Asset {
	created := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)
	mk := func(id string, c domain.Category, section, name string, v domain.Version, tags []string) domain.Asset {
		filename := domain.GenerateFilename(c, section, name, v)
		return domain.Asset{
			ID:        id,
			Category:  c,
			Section:   section,
			Name:      name,
			Version:   v,
			Filename:  filename,
			Path:      ws.GetAssetPath(c, filename),
			CreatedAt: created,
			Tags:      tags,
		}
	}

	a := mk("a1", domain.CategoryTable, "policy_analysis", "impact", domain.DefaultVersion, []string{"dml", "policy"})
	a.Description = "effects, by scenario"
	a.SourceCodeReference = "analysis.py:42"
	return []domain.Asset{
		a,
		mk("b2", domain.CategoryFigure, "forecasting", "lstm_loss", domain.Version{Major: 2, Minor: 3}, nil),
	}
}

func TestLoad_MissingManifestIsEmpty(t *testing.T) {
	repo, _ := newTestRepo(t)

	assets, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, assets)
	assert.Empty(t, assets)

	flat, err := repo.LoadTabular(context.Background())
	require.NoError(t, err)
	assert.Empty(t, flat)
}

func TestSaveLoad_BothFormatsAgree(t *testing.T) {
	ctx := context.Background()
	repo, ws := newTestRepo(t)
	want := sampleAssets(ws)

	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("json manifest mismatch (-want +got):\n%s", diff)
	}

	flat, err := repo.LoadTabular(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(want, flat); diff != "" {
		t.Errorf("csv manifest mismatch (-want +got):\n%s", diff)
	}

	raw, err := os.ReadFile(ws.ManifestCSVPath())
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(raw), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "id,category,section,name,version,filename,path,created_at,tags,description,source_code_reference", string(lines[0]))
	assert.Contains(t, string(lines[1]), "dml;policy")
	assert.Contains(t, string(lines[1]), `"effects, by scenario"`)
}

func TestSave_RejectsTagsWithSeparator(t *testing.T) {
	ctx := context.Background()
	repo, ws := newTestRepo(t)
	assets := sampleAssets(ws)
	assets[0].Tags = []string{"dml;robust"}

	err := repo.Save(ctx, assets)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, statErr := os.Stat(ws.ManifestJSONPath())
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestSave_ErrorKeepsOSCause(t *testing.T) {
	ctx := context.Background()
	repo, ws := newTestRepo(t)
	require.NoError(t, os.RemoveAll(ws.ManifestsPath))
	require.NoError(t, os.WriteFile(ws.ManifestsPath, []byte("not a dir"), 0644))

	err := repo.Save(ctx, sampleAssets(ws))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.ErrorIs(t, err, syscall.ENOTDIR)
}

func TestSave_EmptyCollection(t *testing.T) {
	ctx := context.Background()
	repo, ws := newTestRepo(t)

	require.NoError(t, repo.Save(ctx, nil))

	raw, err := os.ReadFile(ws.ManifestJSONPath())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))

	assets, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestLoad_Corruption(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"null", "null"},
		{"object instead of list", `{"id":"x"}`},
		{"unknown category", `[{"id":"x","category":"video","section":"s","name":"n","version":"1.0","filename":"f"}]`},
		{"missing name", `[{"id":"x","category":"table","section":"s","version":"1.0","filename":"f"}]`},
		{"bad version", `[{"id":"x","category":"table","section":"s","name":"n","version":"one","filename":"f"}]`},
		{"duplicate key", `[
			{"id":"x","category":"table","section":"s","name":"n","version":"1.0","filename":"f"},
			{"id":"y","category":"table","section":"s","name":"n","version":"1.0","filename":"f"}
		]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, ws := newTestRepo(t)
			require.NoError(t, os.WriteFile(ws.ManifestJSONPath(), []byte(tt.content), 0644))

			_, err := repo.Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrManifestCorruption)
		})
	}
}

func TestLoadTabular_BadHeader(t *testing.T) {
	repo, ws := newTestRepo(t)
	require.NoError(t, os.WriteFile(ws.ManifestCSVPath(), []byte("a,b,c,d,e,f,g,h,i,j,k\n"), 0644))

	_, err := repo.LoadTabular(context.Background())
	assert.ErrorIs(t, err, domain.ErrManifestCorruption)
}

func TestSave_RejectsDuplicateKeys(t *testing.T) {
	repo, ws := newTestRepo(t)
	assets := sampleAssets(ws)
	dup := assets[0]
	dup.ID = "other"

	err := repo.Save(context.Background(), append(assets, dup))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NoFileExists(t, ws.ManifestJSONPath())
}

func TestSave_CSVFailureRestoresJSON(t *testing.T) {
	ctx := context.Background()
	repo, ws := newTestRepo(t)
	before := sampleAssets(ws)[:1]
	require.NoError(t, repo.Save(ctx, before))

	prevJSON, err := os.ReadFile(ws.ManifestJSONPath())
	require.NoError(t, err)

	// a directory where the csv should go makes the final rename fail
	require.NoError(t, os.Remove(ws.ManifestCSVPath()))
	require.NoError(t, os.MkdirAll(filepath.Join(ws.ManifestCSVPath(), "blocker"), 0755))

	err = repo.Save(ctx, sampleAssets(ws))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIOFailure)

	gotJSON, err := os.ReadFile(ws.ManifestJSONPath())
	require.NoError(t, err)
	assert.Equal(t, prevJSON, gotJSON)

	entries, err := os.ReadDir(ws.ManifestsPath)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "temp file %s left behind", e.Name())
	}
}

func TestLock_ExcludesOtherHolders(t *testing.T) {
	ctx := context.Background()
	first, ws := newTestRepo(t)
	second := NewFileManifestRepository(ws)
	second.SetLockTimeout(100 * time.Millisecond)

	release, err := first.Lock(ctx)
	require.NoError(t, err)

	start := time.Now()
	_, err = second.Lock(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIOFailure)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)

	release()

	release2, err := second.Lock(ctx)
	require.NoError(t, err)
	release2()
}

func TestLock_HonorsContext(t *testing.T) {
	first, ws := newTestRepo(t)
	second := NewFileManifestRepository(ws)

	release, err := first.Lock(context.Background())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = second.Lock(ctx)
	assert.Error(t, err)
}
