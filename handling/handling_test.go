package handling

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sinemagic_server/config"
	"sinemagic_server/lib"
	"sinemagic_server/structs"
	"testing"
)

func catalogue() []structs.Product {
	return []structs.Product{
		{ID: "1", Name: "Домик", Price: "3500", Category: "Домики", Colors: []string{"#8B4513"}},
		{ID: "2", Name: "Игрушка", Price: "1500", Category: "Игрушки", Description: "мячик"},
		{ID: "3", Name: "Миска", Price: "800", Category: "Посуда"},
	}
}

func TestProductListOptionsFilterAndSort(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products?max_price=3000&sort_by=price&sort_direction=desc", nil)
	opts, err := ParseProductListOptions(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got := opts.Apply(catalogue())
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "3" {
		t.Errorf("got %+v, want products 2 then 3", got)
	}
}

func TestProductListOptionsSearchAndColor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/products?search=%D0%BC%D1%8F%D1%87", nil) // "мяч"
	opts, err := ParseProductListOptions(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := opts.Apply(catalogue()); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("search matched %+v", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/products?color=%238b4513", nil)
	opts, err = ParseProductListOptions(r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := opts.Apply(catalogue()); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("color matched %+v", got)
	}
}

func TestProductListOptionsRejectsBadInput(t *testing.T) {
	for _, q := range []string{"min_price=abc", "sort_by=rating"} {
		r := httptest.NewRequest(http.MethodGet, "/products?"+q, nil)
		if _, err := ParseProductListOptions(r); err == nil {
			t.Errorf("%s: expected error", q)
		}
	}
}

func TestLanguage(t *testing.T) {
	supported := []string{"ru", "en"}

	r := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	if got := Language(r, supported, "ru"); got != "en" {
		t.Errorf("query: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "de-DE,en-US;q=0.8")
	if got := Language(r, supported, "ru"); got != "en" {
		t.Errorf("header: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "en;q=0.1, ru;q=0.9")
	if got := Language(r, supported, "en"); got != "ru" {
		t.Errorf("weights: got %q, want ru", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "de-DE")
	if got := Language(r, supported, "ru"); got != "ru" {
		t.Errorf("unsupported: got %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	if got := Language(r, supported, "ru"); got != "ru" {
		t.Errorf("fallback: got %q", got)
	}
}

func TestHandleErrorStatusCodes(t *testing.T) {
	logger := config.NewLogger(false)
	cases := []struct {
		err  error
		want int
	}{
		{lib.ErrNotFound, http.StatusNotFound},
		{lib.ErrConflict, http.StatusConflict},
		{lib.ErrInvalidTransition, http.StatusBadRequest},
		{lib.ErrInvalidCredentials, http.StatusUnauthorized},
		{lib.ErrRemoteDisabled, http.StatusServiceUnavailable},
		{&lib.ValidationError{}, http.StatusBadRequest},
		{lib.NewRemoteWriteAlert("failed", lib.ErrNoConfirmation, true), http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		HandleError(tc.err, "failed", logger, w)
		if w.Code != tc.want {
			t.Errorf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestHandleMutationTreatsWarningAsSuccess(t *testing.T) {
	logger := config.NewLogger(false)
	warning := &lib.Alert{Level: lib.AlertWarning, Message: "saved locally"}

	w := httptest.NewRecorder()
	HandleMutation(warning, "ok", "done", logger, w)
	if w.Code != http.StatusOK {
		t.Errorf("warning: status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	HandleMutation(lib.NewRemoteWriteAlert("failed", lib.ErrNoConfirmation, true), nil, "done", logger, w)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("blocking: status = %d, want 500", w.Code)
	}
}
