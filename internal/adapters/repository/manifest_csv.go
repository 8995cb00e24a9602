package repository

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

// ManifestColumns is the header of the tabular manifest, same field set and
// order as the JSON records
var ManifestColumns = []string{
	"id", "category", "section", "name", "version", "filename", "path",
	"created_at", "tags", "description", "source_code_reference",
}

func encodeCSV(w io.Writer, assets []domain.Asset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ManifestColumns); err != nil {
		return err
	}
	for _, a := range assets {
		row := []string{
			a.ID,
			string(a.Category),
			a.Section,
			a.Name,
			a.Version.String(),
			a.Filename,
			a.Path,
			a.CreatedAt.UTC().Format(time.RFC3339Nano),
			strings.Join(a.Tags, domain.TagSeparator),
			a.Description,
			a.SourceCodeReference,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decodeCSV(r io.Reader) ([]domain.Asset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(ManifestColumns)

	header, err := cr.Read()
	if err == io.EOF {
		return []domain.Asset{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i, col := range ManifestColumns {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %q at position %d, want %q", header[i], i, col)
		}
	}

	assets := []domain.Asset{}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		version, err := domain.ParseVersion(row[4])
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", row[0], err)
		}
		createdAt, err := time.Parse(time.RFC3339Nano, row[7])
		if err != nil {
			return nil, fmt.Errorf("record %s: bad created_at: %w", row[0], err)
		}
		var tags []string
		if row[8] != "" {
			tags = strings.Split(row[8], domain.TagSeparator)
		}

		assets = append(assets, domain.Asset{
			ID:                  row[0],
			Category:            domain.Category(row[1]),
			Section:             row[2],
			Name:                row[3],
			Version:             version,
			Filename:            row[5],
			Path:                row[6],
			CreatedAt:           createdAt,
			Tags:                tags,
			Description:         row[9],
			SourceCodeReference: row[10],
		})
	}
	return assets, nil
}
