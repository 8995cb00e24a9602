package domain

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
)

func TestPayloadCategories(t *testing.T) {
	payloads := map[Category]Payload{
		CategoryFigure:       Figure{},
		CategoryTable:        Table{},
		CategoryDataSnapshot: DataSnapshot{},
		CategoryModel:        Model{},
		CategorySummary:      Summary{},
	}
	for want, p := range payloads {
		if p.Category() != want {
			t.Errorf("%T.Category() = %s, want %s", p, p.Category(), want)
		}
	}
}

func TestFrame_Encode(t *testing.T) {
	table := Table{Frame: Frame{
		Columns: []string{"scenario", "note"},
		Rows:    [][]string{{"base", "plain"}, {"shock", "has, comma"}},
	}}

	var buf bytes.Buffer
	if err := table.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "scenario,note\nbase,plain\nshock,\"has, comma\"\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	back, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(back.Rows) != 2 || back.Rows[1][1] != "has, comma" {
		t.Errorf("ReadFrame = %+v", back)
	}
}

func TestFrame_Invalid(t *testing.T) {
	tests := map[string]Frame{
		"no columns": {},
		"short row":  {Columns: []string{"a", "b"}, Rows: [][]string{{"1"}}},
		"long row":   {Columns: []string{"a"}, Rows: [][]string{{"1", "2"}}},
	}
	for name, f := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := DataSnapshot{Frame: f}.Encode(&buf)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("nothing should be written for an invalid frame")
			}
		})
	}
}

func TestFigure_Encode(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))

	var fromImage bytes.Buffer
	if err := (Figure{Image: img}).Encode(&fromImage); err != nil {
		t.Fatalf("Encode image: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(fromImage.Bytes()))
	if err != nil || cfg.Width != 3 || cfg.Height != 2 {
		t.Fatalf("encoded figure is not the expected PNG: %+v, %v", cfg, err)
	}

	var fromBytes bytes.Buffer
	if err := (Figure{PNG: fromImage.Bytes()}).Encode(&fromBytes); err != nil {
		t.Fatalf("Encode bytes: %v", err)
	}
	if !bytes.Equal(fromBytes.Bytes(), fromImage.Bytes()) {
		t.Error("PNG bytes must be stored verbatim")
	}

	for name, fig := range map[string]Figure{
		"empty":     {},
		"not png":   {PNG: []byte("GIF89a....")},
		"truncated": {PNG: fromImage.Bytes()[:12]},
	} {
		if err := fig.Encode(&bytes.Buffer{}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
}

func TestModel_Encode(t *testing.T) {
	type weights struct {
		Layers []int
		Bias   float64
	}

	var buf bytes.Buffer
	if err := (Model{Value: weights{Layers: []int{4, 2}, Bias: 0.5}}).Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded weights
	if err := gob.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bias != 0.5 || len(decoded.Layers) != 2 {
		t.Errorf("decoded %+v", decoded)
	}

	buf.Reset()
	if err := (Model{Serialized: []byte("onnx")}).Encode(&buf); err != nil || buf.String() != "onnx" {
		t.Errorf("serialized model: %q, %v", buf.String(), err)
	}

	buf.Reset()
	if err := (Model{Value: make(chan int)}).Encode(&buf); !errors.Is(err, ErrInvalidInput) || buf.Len() != 0 {
		t.Errorf("unencodable model: %v, wrote %d bytes", err, buf.Len())
	}
	if err := (Model{}).Encode(&buf); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty model: %v", err)
	}
}

func TestSummary_Encode(t *testing.T) {
	tests := []struct {
		name    string
		summary Summary
		want    map[string]any
	}{
		{"text", Summary{Text: "rmse fell"}, map[string]any{"text": "rmse fell"}},
		{"data", Summary{Data: map[string]int{"n": 3}}, map[string]any{"n": float64(3)}},
		{"both", Summary{Text: "t", Data: []int{1}}, map[string]any{"text": "t", "data": []any{float64(1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.summary.Encode(&buf); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if !strings.HasSuffix(buf.String(), "\n") {
				t.Error("summary should end with a newline")
			}
			var got map[string]any
			if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
				t.Fatalf("not JSON: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			for k := range tt.want {
				if _, ok := got[k]; !ok {
					t.Errorf("missing key %q in %v", k, got)
				}
			}
		})
	}

	if err := (Summary{}).Encode(&bytes.Buffer{}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty summary: %v", err)
	}
}
