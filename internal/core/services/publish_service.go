package services

import (
	"context"
	"fmt"
	"os"
	"path"

	"go.uber.org/zap"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
	"github.com/kamal-hamza/lx-assets/internal/core/ports"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

var contentTypes = map[domain.Category]string{
	domain.CategoryFigure:       "image/png",
	domain.CategoryTable:        "text/csv",
	domain.CategoryDataSnapshot: "text/csv",
	domain.CategoryModel:        "application/octet-stream",
	domain.CategorySummary:      "application/json",
}

// PublishService mirrors registered assets, and the manifest, to a publisher
type PublishService struct {
	ws        *workspace.Workspace
	lister    *ListService
	publisher ports.Publisher
	logger    *zap.Logger
}

// NewPublishService creates a new publish service
func NewPublishService(ws *workspace.Workspace, lister *ListService, publisher ports.Publisher, logger *zap.Logger) *PublishService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublishService{ws: ws, lister: lister, publisher: publisher, logger: logger}
}

// PublishRequest selects what to upload
type PublishRequest struct {
	Filter          ListRequest
	IncludeManifest bool
	DryRun          bool
}

// PublishResponse lists the object keys written (or that would be)
type PublishResponse struct {
	Location string
	Keys     []string
}

// Execute uploads every matching asset under <category-dir>/<filename>
// and, if asked, both manifest files under manifests/
func (s *PublishService) Execute(ctx context.Context, req PublishRequest) (*PublishResponse, error) {
	listed, err := s.lister.Execute(ctx, req.Filter)
	if err != nil {
		return nil, err
	}

	resp := &PublishResponse{Location: s.publisher.Location()}

	for _, a := range listed.Assets {
		key := path.Join(a.Category.Dir(), a.Filename)
		if err := s.upload(ctx, a.Path, key, contentTypes[a.Category], req.DryRun); err != nil {
			return resp, fmt.Errorf("failed to publish %s: %w", a.Filename, err)
		}
		resp.Keys = append(resp.Keys, key)
	}

	if req.IncludeManifest {
		manifests := []struct{ src, key, ctype string }{
			{s.ws.ManifestJSONPath(), path.Join(workspace.ManifestDir, workspace.ManifestJSONName), "application/json"},
			{s.ws.ManifestCSVPath(), path.Join(workspace.ManifestDir, workspace.ManifestCSVName), "text/csv"},
		}
		for _, m := range manifests {
			if err := s.upload(ctx, m.src, m.key, m.ctype, req.DryRun); err != nil {
				return resp, fmt.Errorf("failed to publish manifest: %w", err)
			}
			resp.Keys = append(resp.Keys, m.key)
		}
	}

	return resp, nil
}

func (s *PublishService) upload(ctx context.Context, src, key, contentType string, dryRun bool) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	if dryRun {
		return nil
	}

	if err := s.publisher.Put(ctx, key, f, contentType); err != nil {
		return err
	}
	s.logger.Debug("published", zap.String("key", key), zap.String("location", s.publisher.Location()))
	return nil
}
