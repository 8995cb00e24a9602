package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a two-part major.minor asset version
type Version struct {
	Major int
	Minor int
}

// DefaultVersion is used when the caller does not supply one
var DefaultVersion = Version{Major: 1, Minor: 0}

// ParseVersion accepts "1", "1.2" and "v1.2"
func ParseVersion(s string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if raw == "" {
		return Version{}, fmt.Errorf("%w: empty version", ErrInvalidInput)
	}

	parts := strings.Split(raw, ".")
	if len(parts) > 2 {
		return Version{}, fmt.Errorf("%w: version %q must be major.minor", ErrInvalidInput, s)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil || major < 0 {
		return Version{}, fmt.Errorf("%w: invalid major version in %q", ErrInvalidInput, s)
	}

	minor := 0
	if len(parts) == 2 {
		minor, err = strconv.Atoi(parts[1])
		if err != nil || minor < 0 {
			return Version{}, fmt.Errorf("%w: invalid minor version in %q", ErrInvalidInput, s)
		}
	}

	return Version{Major: major, Minor: minor}, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// IsZero reports whether the version was never set
func (v Version) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// Compare returns -1, 0 or 1
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		if v.Major < other.Major {
			return -1
		}
		return 1
	case v.Minor != other.Minor:
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether v sorts before other
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// NextMinor returns v with the minor part incremented
func (v Version) NextMinor() Version {
	return Version{Major: v.Major, Minor: v.Minor + 1}
}

// NextMajor returns the next major version with minor reset
func (v Version) NextMajor() Version {
	return Version{Major: v.Major + 1, Minor: 0}
}

// MarshalText stores versions as "major.minor" strings in JSON
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses the "major.minor" form
func (v *Version) UnmarshalText(data []byte) error {
	parsed, err := ParseVersion(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
