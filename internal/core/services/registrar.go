package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports"
	"github.com/kamal-hamza/lx-assets/internal/metrics"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

// DuplicatePolicy decides what a save does when its key is already registered
type DuplicatePolicy string

const (
	// PolicyOverwrite replaces the file and record in place, keeping the id
	PolicyOverwrite DuplicatePolicy = "overwrite"
	// PolicyReject fails with ErrDuplicateKey
	PolicyReject DuplicatePolicy = "reject"
	// PolicyBump stores the payload under the next free minor version
	PolicyBump DuplicatePolicy = "bump"
)

// ParseDuplicatePolicy validates a policy name; empty means overwrite
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyReject:
		return PolicyReject, nil
	case PolicyBump:
		return PolicyBump, nil
	}
	return "", fmt.Errorf("%w: unknown duplicate policy %q (want overwrite, reject or bump)", domain.ErrInvalidInput, s)
}

// SaveRequest carries everything but the payload for a save
type SaveRequest struct {
	Section     string
	Name        string
	Description string
	Tags        []string
	Version     string // optional, "major.minor"; defaults to 1.0
	Bump        bool   // store as the next minor version after the highest registered one
	SourceRef   string // optional pointer back to the producing code
}

// RegistrarService persists artifacts under the workspace and records them
// in the manifest. One instance should be shared by all callers in a process.
type RegistrarService struct {
	ws      *workspace.Workspace
	store   ports.ManifestStore
	policy  DuplicatePolicy
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string

	mu sync.Mutex
}

// RegistrarOption configures a RegistrarService
type RegistrarOption func(*RegistrarService)

func WithDuplicatePolicy(p DuplicatePolicy) RegistrarOption {
	return func(s *RegistrarService) { s.policy = p }
}

func WithLogger(l *zap.Logger) RegistrarOption {
	return func(s *RegistrarService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) RegistrarOption {
	return func(s *RegistrarService) { s.metrics = m }
}

// WithClock overrides the timestamp source (tests)
func WithClock(now func() time.Time) RegistrarOption {
	return func(s *RegistrarService) { s.now = now }
}

// NewRegistrarService creates a registrar over ws and store
func NewRegistrarService(ws *workspace.Workspace, store ports.ManifestStore, opts ...RegistrarOption) *RegistrarService {
	s := &RegistrarService{
		ws:     ws,
		store:  store,
		policy: PolicyOverwrite,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the active duplicate policy
func (s *RegistrarService) Policy() DuplicatePolicy {
	return s.policy
}

// SaveFigure persists a rendered figure as PNG under figures/
func (s *RegistrarService) SaveFigure(ctx context.Context, fig domain.Figure, req SaveRequest) (*domain.Asset, error) {
	return s.Save(ctx, fig, req)
}

// SaveTable persists tabular results as CSV under tables/
func (s *RegistrarService) SaveTable(ctx context.Context, frame domain.Frame, req SaveRequest) (*domain.Asset, error) {
	return s.Save(ctx, domain.Table{Frame: frame}, req)
}

// SaveDataSnapshot persists a data snapshot as CSV under data_snapshots/
func (s *RegistrarService) SaveDataSnapshot(ctx context.Context, frame domain.Frame, req SaveRequest) (*domain.Asset, error) {
	return s.Save(ctx, domain.DataSnapshot{Frame: frame}, req)
}

// SaveModel persists a serialized model under models/
func (s *RegistrarService) SaveModel(ctx context.Context, model domain.Model, req SaveRequest) (*domain.Asset, error) {
	return s.Save(ctx, model, req)
}

// SaveSummary persists a text or structured summary as JSON under summaries/
func (s *RegistrarService) SaveSummary(ctx context.Context, summary domain.Summary, req SaveRequest) (*domain.Asset, error) {
	return s.Save(ctx, summary, req)
}

// Save runs the shared registration algorithm for any payload. When it
// returns without error the artifact is on disk and both manifest forms
// already reflect it; on error neither the manifest nor the artifact
// directory has changed.
func (s *RegistrarService) Save(ctx context.Context, payload domain.Payload, req SaveRequest) (*domain.Asset, error) {
	start := s.now()

	asset, err := s.save(ctx, payload, req)
	if err != nil {
		kind := domain.KindIOFailure
		var assetErr *domain.AssetError
		if errors.As(err, &assetErr) {
			kind = assetErr.Kind
		}
		s.metrics.ObserveFailure(kind)
		s.logger.Warn("asset save failed",
			zap.String("kind", kind.String()),
			zap.String("section", req.Section),
			zap.String("name", req.Name),
			zap.Error(err))
		return nil, err
	}

	s.metrics.ObserveSave(asset.Category, s.now().Sub(start))
	s.logger.Info("asset saved",
		zap.String("id", asset.ID),
		zap.String("category", string(asset.Category)),
		zap.String("section", asset.Section),
		zap.String("name", asset.Name),
		zap.String("version", asset.Version.String()),
		zap.String("path", asset.Path))
	return asset, nil
}

func (s *RegistrarService) save(ctx context.Context, payload domain.Payload, req SaveRequest) (*domain.Asset, error) {
	if payload == nil {
		return nil, domain.NewAssetError("save", domain.Key{Section: req.Section, Name: req.Name},
			domain.KindInvalidInput, errors.New("nil payload"))
	}

	category := payload.Category()
	key := domain.Key{Category: category, Section: req.Section, Name: req.Name, Version: domain.DefaultVersion}

	section, err := domain.SanitizeField("section", req.Section)
	if err != nil {
		return nil, domain.NewAssetError("save", key, domain.KindInvalidInput, err)
	}
	key.Section = section

	name, err := domain.SanitizeField("name", req.Name)
	if err != nil {
		return nil, domain.NewAssetError("save", key, domain.KindInvalidInput, err)
	}
	key.Name = name

	if req.Version != "" {
		v, err := domain.ParseVersion(req.Version)
		if err != nil {
			return nil, domain.NewAssetError("save", key, domain.KindInvalidInput, err)
		}
		key.Version = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.store.Lock(ctx)
	if err != nil {
		return nil, domain.NewAssetError("lock manifest", key, domain.KindIOFailure, err)
	}
	defer unlock()

	records, err := s.store.Load(ctx)
	if err != nil {
		return nil, domain.NewAssetError("load manifest", key, domain.KindManifestCorruption, err)
	}

	if req.Bump {
		key.Version = nextVersion(records, key)
	}

	idx := indexOfKey(records, key)
	if idx >= 0 {
		switch s.policy {
		case PolicyReject:
			return nil, domain.NewAssetError("save", key, domain.KindInvalidInput, domain.ErrDuplicateKey)
		case PolicyBump:
			key.Version = nextVersion(records, key)
			idx = -1
		}
	}

	filename := domain.GenerateFilename(category, key.Section, key.Name, key.Version)
	dir := s.ws.CategoryPath(category)

	asset := domain.Asset{
		ID:                  s.newID(),
		Category:            category,
		Section:             key.Section,
		Name:                key.Name,
		Version:             key.Version,
		Filename:            filename,
		Path:                filepath.Join(dir, filename),
		CreatedAt:           s.now().UTC(),
		Tags:                domain.NormalizeTags(req.Tags),
		Description:         strings.TrimSpace(req.Description),
		SourceCodeReference: strings.TrimSpace(req.SourceRef),
	}
	if idx >= 0 {
		// re-registration keeps the identity of the record it replaces
		asset.ID = records[idx].ID
	}

	staged, err := stageArtifact(dir, filename, payload)
	if err != nil {
		return nil, domain.NewAssetError("write artifact", key, domain.KindIOFailure, err)
	}

	updated := make([]domain.Asset, 0, len(records)+1)
	updated = append(updated, records...)
	if idx >= 0 {
		updated[idx] = asset
	} else {
		updated = append(updated, asset)
	}

	if err := s.store.Save(ctx, updated); err != nil {
		if rbErr := staged.rollback(); rbErr != nil {
			s.logger.Error("artifact rollback failed",
				zap.String("path", asset.Path),
				zap.Error(rbErr))
		}
		return nil, domain.NewAssetError("persist manifest", key, domain.KindIOFailure, err)
	}
	staged.commit()

	s.metrics.SetRecords(len(updated))
	return &asset, nil
}

// NextVersion returns the version a bumped save of the series would get:
// 1.0 for a new series, otherwise the highest minor plus one
func (s *RegistrarService) NextVersion(ctx context.Context, category domain.Category, section, name string) (domain.Version, error) {
	records, err := s.store.Load(ctx)
	if err != nil {
		return domain.Version{}, err
	}
	key := domain.Key{Category: category, Section: domain.Sanitize(section), Name: domain.Sanitize(name)}
	return nextVersion(records, key), nil
}

func indexOfKey(records []domain.Asset, key domain.Key) int {
	for i := range records {
		if records[i].Key() == key {
			return i
		}
	}
	return -1
}

func nextVersion(records []domain.Asset, key domain.Key) domain.Version {
	series := &domain.Asset{Category: key.Category, Section: key.Section, Name: key.Name}
	var highest domain.Version
	found := false
	for i := range records {
		r := &records[i]
		if !r.SameSeries(series) {
			continue
		}
		if !found || highest.Less(r.Version) {
			highest = r.Version
			found = true
		}
	}
	if !found {
		return domain.DefaultVersion
	}
	return highest.NextMinor()
}

// stagedArtifact is a file already renamed into place whose previous
// content, if any, is kept aside until the manifest write settles
type stagedArtifact struct {
	target string
	backup string
}

// stageArtifact encodes payload into a temp file next to the target and
// renames it into place, moving any existing file aside first
func stageArtifact(dir, filename string, payload domain.Payload) (*stagedArtifact, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", domain.ErrIOFailure, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filename+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIOFailure, err)
	}
	tmpPath := tmp.Name()

	encodeErr := payload.Encode(tmp)
	if encodeErr == nil {
		encodeErr = tmp.Sync()
	}
	closeErr := tmp.Close()
	if encodeErr == nil {
		encodeErr = closeErr
	}
	if encodeErr != nil {
		_ = os.Remove(tmpPath)
		return nil, encodeErr
	}

	st := &stagedArtifact{target: filepath.Join(dir, filename)}

	if _, err := os.Lstat(st.target); err == nil {
		st.backup = filepath.Join(dir, "."+filename+".bak")
		if err := os.Rename(st.target, st.backup); err != nil {
			_ = os.Remove(tmpPath)
			return nil, fmt.Errorf("%w: move aside %s: %w", domain.ErrIOFailure, st.target, err)
		}
	}

	if err := os.Rename(tmpPath, st.target); err != nil {
		_ = os.Remove(tmpPath)
		if st.backup != "" {
			_ = os.Rename(st.backup, st.target)
		}
		return nil, fmt.Errorf("%w: place %s: %w", domain.ErrIOFailure, st.target, err)
	}

	return st, nil
}

func (st *stagedArtifact) commit() {
	if st.backup != "" {
		_ = os.Remove(st.backup)
	}
}

func (st *stagedArtifact) rollback() error {
	if err := os.Remove(st.target); err != nil && !os.IsNotExist(err) {
		return err
	}
	if st.backup != "" {
		return os.Rename(st.backup, st.target)
	}
	return nil
}
