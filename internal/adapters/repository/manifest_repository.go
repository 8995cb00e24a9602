package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

const (
	defaultLockTimeout = 10 * time.Second
	lockPollInterval   = 25 * time.Millisecond
)

// FileManifestRepository keeps the manifest as a JSON record list plus a
// flattened CSV copy under <root>/manifests. JSON is authoritative on load.
type FileManifestRepository struct {
	jsonPath    string
	csvPath     string
	lockPath    string
	lockTimeout time.Duration
}

// NewFileManifestRepository creates a repository for the workspace manifest
func NewFileManifestRepository(ws *workspace.Workspace) *FileManifestRepository {
	return &FileManifestRepository{
		jsonPath:    ws.ManifestJSONPath(),
		csvPath:     ws.ManifestCSVPath(),
		lockPath:    ws.LockPath(),
		lockTimeout: defaultLockTimeout,
	}
}

// SetLockTimeout bounds how long Lock waits for another holder
func (r *FileManifestRepository) SetLockTimeout(d time.Duration) {
	if d > 0 {
		r.lockTimeout = d
	}
}

// Load reads the manifest from disk
func (r *FileManifestRepository) Load(ctx context.Context) ([]domain.Asset, error) {
	data, err := os.ReadFile(r.jsonPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Asset{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrManifestCorruption, r.jsonPath, err)
	}

	var assets []domain.Asset
	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrManifestCorruption, r.jsonPath, err)
	}
	if assets == nil {
		// a literal "null" is not something Save ever writes
		return nil, fmt.Errorf("%w: %s does not hold a record list", domain.ErrManifestCorruption, r.jsonPath)
	}

	if err := validateRecords(assets); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrManifestCorruption, r.jsonPath, err)
	}
	return assets, nil
}

// LoadTabular reads the CSV copy of the manifest
func (r *FileManifestRepository) LoadTabular(ctx context.Context) ([]domain.Asset, error) {
	f, err := os.Open(r.csvPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.Asset{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrManifestCorruption, r.csvPath, err)
	}
	defer f.Close()

	assets, err := decodeCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrManifestCorruption, r.csvPath, err)
	}
	return assets, nil
}

// Save persists the full collection to both formats. Each file is written
// to a temp file and renamed over the old one. If the CSV cannot be put in
// place the previous JSON is restored so the two never diverge.
func (r *FileManifestRepository) Save(ctx context.Context, assets []domain.Asset) error {
	if assets == nil {
		assets = []domain.Asset{}
	}
	if err := validateRecords(assets); err != nil {
		return fmt.Errorf("%w: refusing to persist manifest: %w", domain.ErrInvalidInput, err)
	}
	if err := validateTags(assets); err != nil {
		return fmt.Errorf("%w: refusing to persist manifest: %w", domain.ErrInvalidInput, err)
	}

	jsonData, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	jsonData = append(jsonData, '\n')

	var csvBuf bytes.Buffer
	if err := encodeCSV(&csvBuf, assets); err != nil {
		return fmt.Errorf("failed to encode tabular manifest: %w", err)
	}

	dir := filepath.Dir(r.jsonPath)
	jsonTmp, err := writeTemp(dir, filepath.Base(r.jsonPath), jsonData)
	if err != nil {
		return fmt.Errorf("%w: stage manifest: %w", domain.ErrIOFailure, err)
	}
	defer os.Remove(jsonTmp)

	csvTmp, err := writeTemp(dir, filepath.Base(r.csvPath), csvBuf.Bytes())
	if err != nil {
		return fmt.Errorf("%w: stage tabular manifest: %w", domain.ErrIOFailure, err)
	}
	defer os.Remove(csvTmp)

	prevJSON, prevErr := os.ReadFile(r.jsonPath)
	hadJSON := prevErr == nil

	if err := os.Rename(jsonTmp, r.jsonPath); err != nil {
		return fmt.Errorf("%w: replace %s: %w", domain.ErrIOFailure, r.jsonPath, err)
	}

	if err := os.Rename(csvTmp, r.csvPath); err != nil {
		if restoreErr := r.restoreJSON(prevJSON, hadJSON); restoreErr != nil {
			return fmt.Errorf("%w: replace %s: %w (restoring json also failed: %w)",
				domain.ErrIOFailure, r.csvPath, err, restoreErr)
		}
		return fmt.Errorf("%w: replace %s: %w", domain.ErrIOFailure, r.csvPath, err)
	}

	return nil
}

func (r *FileManifestRepository) restoreJSON(prev []byte, existed bool) error {
	if !existed {
		return os.Remove(r.jsonPath)
	}
	tmp, err := writeTemp(filepath.Dir(r.jsonPath), filepath.Base(r.jsonPath), prev)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, r.jsonPath); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Lock takes the exclusive cross-process manifest lock, polling until the
// lock timeout or ctx ends
func (r *FileManifestRepository) Lock(ctx context.Context) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	for {
		release, err := tryLock(r.lockPath)
		if err == nil {
			return release, nil
		}
		if !errors.Is(err, errLocked) {
			return nil, fmt.Errorf("%w: lock %s: %w", domain.ErrIOFailure, r.lockPath, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: manifest lock %s is held by another process: %w",
				domain.ErrIOFailure, r.lockPath, ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}

// writeTemp writes data to a synced temp file in dir and returns its path
func writeTemp(dir, base string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func validateRecords(assets []domain.Asset) error {
	seen := make(map[domain.Key]bool, len(assets))
	for i := range assets {
		a := &assets[i]
		if !a.Category.Valid() {
			return fmt.Errorf("record %d has unknown category %q", i, a.Category)
		}
		if a.Section == "" || a.Name == "" || a.Filename == "" {
			return fmt.Errorf("record %d is missing section, name or filename", i)
		}
		key := a.Key()
		if seen[key] {
			return fmt.Errorf("duplicate record for %s", key)
		}
		seen[key] = true
	}
	return nil
}

// validateTags rejects tags the tabular manifest could not carry unchanged
func validateTags(assets []domain.Asset) error {
	for i := range assets {
		for _, t := range assets[i].Tags {
			if t == "" || strings.Contains(t, domain.TagSeparator) {
				return fmt.Errorf("record %d has tag %q that cannot be stored in the tabular manifest", i, t)
			}
		}
	}
	return nil
}
