package domain

import (
	"bytes"
	"encoding/csv"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
)

// Payload is the in-memory form of an artifact. The set of implementations
// is closed: one per category, each knowing how to serialize itself.
type Payload interface {
	Category() Category
	// Encode writes the serialized artifact. Errors are InvalidInput.
	Encode(w io.Writer) error
	sealed()
}

// Frame is tabular data: a header row plus string cells
type Frame struct {
	Columns []string
	Rows    [][]string
}

// Validate checks that the frame is rectangular and has a header
func (f Frame) Validate() error {
	if len(f.Columns) == 0 {
		return fmt.Errorf("%w: table has no columns", ErrInvalidInput)
	}
	for i, row := range f.Rows {
		if len(row) != len(f.Columns) {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidInput, i, len(row), len(f.Columns))
		}
	}
	return nil
}

func (f Frame) writeCSV(w io.Writer) error {
	if err := f.Validate(); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(f.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// ReadFrame parses CSV with a header row
func ReadFrame(r io.Reader) (Frame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: not tabular: %w", ErrInvalidInput, err)
	}
	if len(records) == 0 {
		return Frame{}, fmt.Errorf("%w: table has no header row", ErrInvalidInput)
	}
	return Frame{Columns: records[0], Rows: records[1:]}, nil
}

// Figure is a rendered image. Exactly one of Image or PNG should be set.
type Figure struct {
	Image image.Image
	PNG   []byte
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func (Figure) Category() Category { return CategoryFigure }
func (Figure) sealed()            {}

func (f Figure) Encode(w io.Writer) error {
	switch {
	case f.Image != nil:
		if err := png.Encode(w, f.Image); err != nil {
			return fmt.Errorf("%w: render figure: %w", ErrInvalidInput, err)
		}
		return nil
	case len(f.PNG) > 0:
		if !bytes.HasPrefix(f.PNG, pngSignature) {
			return fmt.Errorf("%w: figure bytes are not a PNG image", ErrInvalidInput)
		}
		if _, err := png.DecodeConfig(bytes.NewReader(f.PNG)); err != nil {
			return fmt.Errorf("%w: figure PNG is unreadable: %w", ErrInvalidInput, err)
		}
		_, err := w.Write(f.PNG)
		return err
	}
	return fmt.Errorf("%w: empty figure", ErrInvalidInput)
}

// Table is tabular analysis output
type Table struct {
	Frame
}

func (Table) Category() Category { return CategoryTable }
func (Table) sealed()            {}

func (t Table) Encode(w io.Writer) error { return t.writeCSV(w) }

// DataSnapshot is a frozen copy of input or intermediate data
type DataSnapshot struct {
	Frame
}

func (DataSnapshot) Category() Category { return CategoryDataSnapshot }
func (DataSnapshot) sealed()            {}

func (s DataSnapshot) Encode(w io.Writer) error { return s.writeCSV(w) }

// Model is a trained model. Value is gob-encoded unless Serialized is set,
// in which case those bytes are stored verbatim.
type Model struct {
	Value      any
	Serialized []byte
}

func (Model) Category() Category { return CategoryModel }
func (Model) sealed()            {}

func (m Model) Encode(w io.Writer) error {
	if len(m.Serialized) > 0 {
		_, err := w.Write(m.Serialized)
		return err
	}
	if m.Value == nil {
		return fmt.Errorf("%w: empty model", ErrInvalidInput)
	}
	// encode to a buffer first so a half-encoded value never reaches w
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.Value); err != nil {
		return fmt.Errorf("%w: serialize model: %w", ErrInvalidInput, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Summary is free text, structured data, or both
type Summary struct {
	Text string
	Data any
}

func (Summary) Category() Category { return CategorySummary }
func (Summary) sealed()            {}

func (s Summary) Encode(w io.Writer) error {
	var doc any
	switch {
	case s.Data != nil && s.Text != "":
		doc = map[string]any{"text": s.Text, "data": s.Data}
	case s.Data != nil:
		doc = s.Data
	case s.Text != "":
		doc = map[string]any{"text": s.Text}
	default:
		return fmt.Errorf("%w: empty summary", ErrInvalidInput)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: serialize summary: %w", ErrInvalidInput, err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
