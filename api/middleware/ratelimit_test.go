package middleware

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"/products/":               "/products",
		"/p/about":                 "/p/:slug",
		"/i18n/en/hero.title":      "/i18n/:lang",
		"/admin/products/abc-123":  "/admin/products/:id",
		"/admin/orders/abc/status": "/admin/orders/:id",
		"/reviews":                 "/reviews",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in); got != want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
