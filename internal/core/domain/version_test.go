package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    Version
		wantErr bool
	}{
		{"1.0", Version{1, 0}, false},
		{"1", Version{1, 0}, false},
		{"v2.3", Version{2, 3}, false},
		{" 10.11 ", Version{10, 11}, false},
		{"", Version{}, true},
		{"v", Version{}, true},
		{"1.2.3", Version{}, true},
		{"a.b", Version{}, true},
		{"-1.0", Version{}, true},
		{"1.-2", Version{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("ParseVersion(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVersion_Ordering(t *testing.T) {
	ordered := []Version{{0, 9}, {1, 0}, {1, 1}, {1, 10}, {2, 0}}
	for i := 0; i < len(ordered)-1; i++ {
		a, b := ordered[i], ordered[i+1]
		if !a.Less(b) || b.Less(a) {
			t.Errorf("expected %s < %s", a, b)
		}
		if a.Compare(a) != 0 {
			t.Errorf("expected %s == %s", a, a)
		}
	}

	if got := (Version{1, 4}).NextMinor(); got != (Version{1, 5}) {
		t.Errorf("NextMinor = %s", got)
	}
	if got := (Version{1, 4}).NextMajor(); got != (Version{2, 0}) {
		t.Errorf("NextMajor = %s", got)
	}
	if !(Version{}).IsZero() || DefaultVersion.IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestVersion_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		V Version `json:"v"`
	}{Version{1, 2}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"v":"1.2"}` {
		t.Errorf("unexpected encoding %s", data)
	}

	var out struct {
		V Version `json:"v"`
	}
	if err := json.Unmarshal([]byte(`{"v":"3.4"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.V != (Version{3, 4}) {
		t.Errorf("decoded %s", out.V)
	}

	if err := json.Unmarshal([]byte(`{"v":"x"}`), &out); err == nil {
		t.Error("expected error for malformed version")
	}
}
