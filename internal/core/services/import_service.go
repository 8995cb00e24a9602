package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

// ImportService registers files that were produced outside the process
// (notebook exports, CLI arguments, the watched inbox)
type ImportService struct {
	registrar      *RegistrarService
	defaultSection string
}

// NewImportService creates an importer. defaultSection is used when the
// request has no section and nothing can be inferred; empty means infer.
func NewImportService(registrar *RegistrarService, defaultSection string) *ImportService {
	return &ImportService{
		registrar:      registrar,
		defaultSection: defaultSection,
	}
}

// ImportRequest describes one file to register
type ImportRequest struct {
	SrcPath  string
	Category domain.Category // optional; inferred from the extension
	SaveRequest
}

var extensionCategories = map[string]domain.Category{
	".png":    domain.CategoryFigure,
	".jpg":    domain.CategoryFigure,
	".jpeg":   domain.CategoryFigure,
	".gif":    domain.CategoryFigure,
	".csv":    domain.CategoryTable,
	".json":   domain.CategorySummary,
	".txt":    domain.CategorySummary,
	".md":     domain.CategorySummary,
	".gob":    domain.CategoryModel,
	".pkl":    domain.CategoryModel,
	".pt":     domain.CategoryModel,
	".joblib": domain.CategoryModel,
	".onnx":   domain.CategoryModel,
	".h5":     domain.CategoryModel,
}

// CategoryForExtension maps a file extension to its default category
func CategoryForExtension(ext string) (domain.Category, bool) {
	c, ok := extensionCategories[strings.ToLower(ext)]
	return c, ok
}

// Import reads SrcPath, builds the category payload and registers it.
// Name defaults to the file's base name; section to the inferred one.
func (s *ImportService) Import(ctx context.Context, req ImportRequest) (*domain.Asset, error) {
	ext := filepath.Ext(req.SrcPath)

	category := req.Category
	if category == "" {
		c, ok := CategoryForExtension(ext)
		if !ok {
			return nil, fmt.Errorf("%w: cannot infer category for %q, pass one explicitly", domain.ErrInvalidInput, filepath.Base(req.SrcPath))
		}
		category = c
	}

	payload, err := PayloadFromFile(req.SrcPath, category)
	if err != nil {
		return nil, err
	}

	save := req.SaveRequest
	if strings.TrimSpace(save.Name) == "" {
		save.Name = strings.TrimSuffix(filepath.Base(req.SrcPath), ext)
	}
	if strings.TrimSpace(save.Section) == "" || save.Section == "auto" {
		save.Section = domain.InferSection(save.Name, save.Tags)
		if save.Section == domain.SectionGeneral && s.defaultSection != "" {
			save.Section = s.defaultSection
		}
	}

	return s.registrar.Save(ctx, payload, save)
}

// PayloadFromFile loads path into the payload type for category
func PayloadFromFile(path string, category domain.Category) (domain.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))

	switch category {
	case domain.CategoryFigure:
		if ext == ".png" {
			return domain.Figure{PNG: data}, nil
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not a readable image: %w", domain.ErrInvalidInput, filepath.Base(path), err)
		}
		return domain.Figure{Image: img}, nil

	case domain.CategoryTable, domain.CategoryDataSnapshot:
		frame, err := domain.ReadFrame(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if category == domain.CategoryTable {
			return domain.Table{Frame: frame}, nil
		}
		return domain.DataSnapshot{Frame: frame}, nil

	case domain.CategorySummary:
		if ext == ".json" {
			if !json.Valid(data) {
				return nil, fmt.Errorf("%w: %s is not valid JSON", domain.ErrInvalidInput, filepath.Base(path))
			}
			return domain.Summary{Data: json.RawMessage(data)}, nil
		}
		return domain.Summary{Text: string(data)}, nil

	case domain.CategoryModel:
		if len(data) == 0 {
			return nil, fmt.Errorf("%w: %s is empty", domain.ErrInvalidInput, filepath.Base(path))
		}
		return domain.Model{Serialized: data}, nil
	}

	return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
}
