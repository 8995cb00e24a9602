package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies registrar failures. None of them are transient, so
// nothing in the registrar retries.
type ErrorKind int

const (
	KindInvalidInput ErrorKind = iota + 1
	KindIOFailure
	KindManifestCorruption
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindIOFailure:
		return "io_failure"
	case KindManifestCorruption:
		return "manifest_corruption"
	}
	return "unknown"
}

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrIOFailure          = errors.New("io failure")
	ErrManifestCorruption = errors.New("manifest corruption")

	// ErrDuplicateKey is returned under the reject policy. It is an InvalidInput.
	ErrDuplicateKey = fmt.Errorf("%w: asset key already registered", ErrInvalidInput)

	// ErrNotFound is returned by lookups that match no record
	ErrNotFound = errors.New("asset not found")
)

// AssetError carries enough context to diagnose a failed operation
type AssetError struct {
	Kind ErrorKind
	Op   string
	Key  Key
	Err  error
}

func (e *AssetError) Error() string {
	key := e.Key
	return fmt.Sprintf("%s %s (category=%s section=%s name=%s version=%s): %v",
		e.Op, e.Kind, key.Category, key.Section, key.Name, key.Version, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match an AssetError against the kind sentinels
func (e *AssetError) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrIOFailure:
		return e.Kind == KindIOFailure
	case ErrManifestCorruption:
		return e.Kind == KindManifestCorruption
	}
	return false
}

// NewAssetError wraps err with operation context. The kind is taken from
// err when it already matches one of the sentinels, otherwise fallback.
func NewAssetError(op string, key Key, fallback ErrorKind, err error) *AssetError {
	var existing *AssetError
	if errors.As(err, &existing) {
		return &AssetError{Kind: existing.Kind, Op: op, Key: key, Err: existing.Err}
	}
	return &AssetError{Kind: KindOf(err, fallback), Op: op, Key: key, Err: err}
}

// KindOf returns the kind a wrapped sentinel implies, or fallback
func KindOf(err error, fallback ErrorKind) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrManifestCorruption):
		return KindManifestCorruption
	case errors.Is(err, ErrIOFailure):
		return KindIOFailure
	}
	return fallback
}
