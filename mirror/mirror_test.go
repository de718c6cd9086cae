package mirror

import (
	"context"
	"errors"
	"testing"
)

func TestGetJSONMissingKey(t *testing.T) {
	got, err := GetJSON[map[string]bool](context.Background(), NewMemory(), KeySections)
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil for a missing key, got %v, %v", got, err)
	}
}

func TestGetJSONMalformed(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	_ = store.Set(ctx, KeyProducts, "{not json")

	_, err := GetJSON[[]string](ctx, store, KeyProducts)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestSetJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	if err := SetJSON(ctx, store, KeySections, map[string]bool{"price": false}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := GetJSON[map[string]bool](ctx, store, KeySections)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v, ok := (*got)["price"]; !ok || v {
		t.Errorf("unexpected value %v", *got)
	}
}

func TestScopedIsolatesClients(t *testing.T) {
	ctx := context.Background()
	shared := NewMemory()
	a := NewScoped(shared, "client:a:")
	b := NewScoped(shared, "client:b:")

	_ = a.Set(ctx, KeyDemoUser, `{"id":"demo-user-123"}`)
	_ = a.Set(ctx, AuthTokenKey("proj"), "token")
	_ = b.Set(ctx, AuthTokenKey("proj"), "other")

	if _, ok, _ := b.Get(ctx, KeyDemoUser); ok {
		t.Fatal("client b sees client a's demo marker")
	}

	keys, err := a.Keys(ctx, AuthTokenPattern)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 1 || keys[0] != "sb-proj-auth-token" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := a.Delete(ctx, keys...); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := b.Get(ctx, AuthTokenKey("proj")); !ok {
		t.Error("deleting client a's token removed client b's")
	}
}

func TestIsAuthTokenKey(t *testing.T) {
	if !IsAuthTokenKey("sb-abc-auth-token") {
		t.Error("expected match")
	}
	if IsAuthTokenKey("site_products") {
		t.Error("unexpected match")
	}
}
