// Package mirror is the local key/value copy of site content and
// per-client auth state. It is the offline fallback for the remote store
// and the backstop for optimistic writes.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Keys owned by the content store.
const (
	KeyTranslations = "site_translations"
	KeySections     = "site_sections"
	KeyProducts     = "site_products"
	KeyOrders       = "site_orders"
	KeyReviews      = "site_reviews"
	KeyPages        = "site_pages"
	KeyDemoUser     = "demo_user"
)

// ErrMalformed marks a stored value that could not be decoded.
var ErrMalformed = errors.New("malformed mirror value")

type Store interface {
	// Get returns the raw value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	// Keys lists keys matching a glob pattern (* and ? wildcards).
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// GetJSON decodes the value stored under key. A missing key yields
// (nil, nil); undecodable JSON yields an error wrapping ErrMalformed.
func GetJSON[T any](ctx context.Context, s Store, key string) (*T, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return nil, err
	}

	var result T
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", ErrMalformed, key, err)
	}
	return &result, nil
}

func SetJSON[T any](ctx context.Context, s Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, string(data))
}

// AuthTokenPattern matches the session keys written by the remote auth
// client ("sb-<project-ref>-auth-token").
const AuthTokenPattern = "sb-*-auth-token"

func AuthTokenKey(projectRef string) string {
	return "sb-" + projectRef + "-auth-token"
}

func IsAuthTokenKey(key string) bool {
	return strings.HasPrefix(key, "sb-") && strings.HasSuffix(key, "-auth-token")
}

// Scoped confines a store to keys under prefix, so every client gets its
// own namespace on a shared backend.
type Scoped struct {
	inner  Store
	prefix string
}

func NewScoped(inner Store, prefix string) *Scoped {
	return &Scoped{inner: inner, prefix: prefix}
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *Scoped) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = s.prefix + k
	}
	return s.inner.Delete(ctx, prefixed...)
}

func (s *Scoped) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := s.inner.Keys(ctx, escapeGlob(s.prefix)+pattern)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, s.prefix))
	}
	return out, nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)
	return r.Replace(s)
}
