// Package extra bounds the free-form attribute maps stored on members,
// packages and enrollments. Nothing in the domain reads their keys.
package extra

import (
	"encoding/json"

	"gorm.io/datatypes"

	"tour-backoffice/internal/domain/apperr"
)

const (
	MaxKeys  = 64
	MaxBytes = 16 << 10
)

// Validate enforces the key and serialized size limits.
func Validate(m map[string]any) error {
	if len(m) > MaxKeys {
		return apperr.Validationf("extra supports at most %d keys, got %d", MaxKeys, len(m))
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return apperr.Validationf("extra must be a JSON object")
	}
	if len(raw) > MaxBytes {
		return apperr.Validationf("extra must not exceed %d bytes when serialized", MaxBytes)
	}
	return nil
}

// New validates m and returns a non-nil column value.
func New(m map[string]any) (datatypes.JSONMap, error) {
	out := datatypes.JSONMap{}
	for k, v := range m {
		out[k] = v
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Merge applies patch over base. A null value in patch removes the key.
func Merge(base datatypes.JSONMap, patch map[string]any) (datatypes.JSONMap, error) {
	out := datatypes.JSONMap{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
