package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrNotFound is returned by KV.Get when the key has never been set.
var ErrNotFound = errors.New("store: key not found")

// KV persists named string fields. Implementations must be safe for
// concurrent use.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// GetString returns the value for key, or def when the key is missing.
func GetString(ctx context.Context, kv KV, key, def string) (string, error) {
	v, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	return v, err
}

// GetInt reads an integer field. Missing or malformed values yield def.
func GetInt(ctx context.Context, kv KV, key string, def int) (int, error) {
	v, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, nil
	}
	return n, nil
}

// SetInt stores n in decimal.
func SetInt(ctx context.Context, kv KV, key string, n int) error {
	return kv.Set(ctx, key, strconv.Itoa(n))
}

// GetBool reads a field written by SetBool. Anything other than "true" is false.
func GetBool(ctx context.Context, kv KV, key string) (bool, error) {
	v, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return v == "true", err
}

// SetBool stores b as "true" or "false".
func SetBool(ctx context.Context, kv KV, key string, b bool) error {
	return kv.Set(ctx, key, strconv.FormatBool(b))
}

// GetJSON decodes the field at key into dst. A missing key leaves dst untouched.
func GetJSON(ctx context.Context, kv KV, key string, dst any) error {
	v, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(v), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, string(b))
}
