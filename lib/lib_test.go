package lib

import (
	"errors"
	"sinemagic_server/structs"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestValidateProductPrice(t *testing.T) {
	for _, price := range []string{"-5", "abc", "NaN"} {
		req := structs.ProductRequest{Name: "Домик", Price: price}
		var ve *ValidationError
		if err := Validate(req); !errors.As(err, &ve) || len(ve.Errors) != 1 || ve.Errors[0].Field != "price" {
			t.Errorf("%q: expected a price error, got %v", price, err)
		}
	}

	for _, price := range []string{"1500", "1 500,50", "0"} {
		if err := Validate(structs.ProductRequest{Name: "Домик", Price: price}); err != nil {
			t.Errorf("%q: unexpected error %v", price, err)
		}
	}

	negative := "-1"
	if err := Validate(structs.ProductPatch{Price: &negative}); err == nil {
		t.Error("expected patch with a negative price to fail")
	}
}

func TestLineTotal(t *testing.T) {
	total, err := LineTotal("1500", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4500 {
		t.Errorf("expected 4500, got %v", total)
	}

	if _, err := LineTotal("free", 1); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice, got %v", err)
	}

	total, err = LineTotal("12,50", 2)
	if err != nil || total != 25 {
		t.Errorf("expected comma decimals to parse, got %v (%v)", total, err)
	}
}

func TestFormatRuDate(t *testing.T) {
	d := time.Date(2023, time.November, 5, 12, 0, 0, 0, time.UTC)
	if got := FormatRuDate(d); got != "05.11.2023" {
		t.Errorf("expected 05.11.2023, got %s", got)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	params := *DefaultArgonParams
	params.Memory = 8 * 1024
	hash, err := HashPassword("correct horse", &params)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := VerifyPassword("correct horse", hash)
	if err != nil || !ok {
		t.Fatalf("expected password to verify, ok=%v err=%v", ok, err)
	}
	ok, _ = VerifyPassword("wrong", hash)
	if ok {
		t.Error("wrong password verified")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	claims := NewClaims([16]byte{1}, "a@b.c", time.Hour)
	token, err := SignToken(claims, "secret")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	parsed, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Jti != claims.Jti || parsed.Email != "a@b.c" {
		t.Errorf("claims mismatch: %+v", parsed)
	}
	if _, err := ParseToken(token, "other"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}

	expired := NewClaims([16]byte{1}, "a@b.c", -time.Minute)
	token, _ = SignToken(expired, "secret")
	if _, err := ParseToken(token, "secret"); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestNewRemoteWriteAlertClassifiesSQLState(t *testing.T) {
	alert := NewRemoteWriteAlert("save failed", &pgconn.PgError{Code: PgUndefinedColumn}, true)
	if !alert.Blocking() || alert.Cause == "" || !alert.RolledBack {
		t.Errorf("unexpected alert: %+v", alert)
	}
	if !errors.Is(MapPgError(alert.Err), ErrSchemaMismatch) {
		t.Error("expected schema mismatch")
	}

	alert = NewRemoteWriteAlert("save failed", &pgconn.PgError{Code: PgInsufficientPrivilege}, true)
	if alert.Cause == "" || alert.Resolution == "" {
		t.Errorf("expected policy hint, got %+v", alert)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"  Privacy Policy ": "privacy-policy",
		"FAQ & Help!":       "faq-help",
		"terms--2024":       "terms-2024",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOrderReference(t *testing.T) {
	if got := OrderReference("3f2a9c1e-0000-4000-8000-000000000000"); got != "SM-3F2A9C1E" {
		t.Errorf("unexpected reference %s", got)
	}
}
