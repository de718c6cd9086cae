package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sinemagic_server/auth"
	"sinemagic_server/config"
	"sinemagic_server/content"
	"sinemagic_server/i18n"
	"sinemagic_server/lib"
	"sinemagic_server/mirror"
	"sinemagic_server/services"
	"sinemagic_server/structs"
	"testing"
	"time"
)

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	server  *httptest.Server
	client  *http.Client
	content *content.Store
	csrf    string
}

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{MaxBodyBytes: 1 << 20},
		Cors: &structs.CorsConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowedHeaders: []string{"Content-Type", lib.CSRFHeaderName},
		},
		Remote:    &structs.RemoteConfig{},
		Cache:     &structs.CacheConfig{},
		Auth:      &structs.AuthConfig{SessionTimeout: time.Second, ClientCookieTTL: time.Hour, DemoEnabled: true},
		RateLimit: &structs.RateLimitConfig{},
		Email:     &structs.EmailConfig{},
		Media:     &structs.MediaConfig{MaxUploadSize: 1 << 20},
		Content:   &structs.ContentConfig{DefaultLanguage: "ru", Languages: []string{"ru", "en"}},
	}
}

func newTestApp(t *testing.T, cfg *structs.Config) *testApp {
	t.Helper()
	logger := config.NewLogger(false)
	store := mirror.NewMemory()

	svc, err := services.NewServiceManager(logger, cfg, nil, nil)
	if err != nil {
		t.Fatalf("services: %v", err)
	}

	static, err := i18n.NewResolver(nil)
	if err != nil {
		t.Fatalf("static resolver: %v", err)
	}
	contentStore := content.New(content.Options{
		Mirror:       store,
		Logger:       logger,
		Translations: static.Flatten(),
	})
	contentStore.Refresh(context.Background())

	resolver, err := i18n.NewResolver(contentStore)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	sessions := auth.NewManager(store, nil, cfg.Auth, logger)

	server := httptest.NewServer(App(Dependencies{
		Config:   cfg,
		Content:  contentStore,
		Sessions: sessions,
		Resolver: resolver,
		Services: svc,
	}))
	t.Cleanup(func() {
		server.Close()
		sessions.Close()
		contentStore.Close()
	})

	jar, _ := cookiejar.New(nil)
	return &testApp{
		server:  server,
		content: contentStore,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (a *testApp) do(t *testing.T, method, path string, body any) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.csrf != "" {
		req.Header.Set(lib.CSRFHeaderName, a.csrf)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}

// fetchCSRF stores a CSRF cookie in the jar and remembers the token for
// the header.
func (a *testApp) fetchCSRF(t *testing.T) {
	t.Helper()
	resp, env := a.do(t, http.MethodGet, "/auth/csrf", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("csrf status = %d", resp.StatusCode)
	}
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("csrf payload: %v", err)
	}
	a.csrf = data["csrf_token"]
	if a.csrf == "" {
		t.Fatal("empty csrf token")
	}
}

func (a *testApp) signInDemo(t *testing.T) {
	t.Helper()
	a.fetchCSRF(t)
	resp, _ := a.do(t, http.MethodPost, "/login/demo", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("demo login status = %d", resp.StatusCode)
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return out
}

func TestLandingListsOnlyVisibleSections(t *testing.T) {
	app := newTestApp(t, testConfig())
	if err := app.content.ToggleSection(context.Background(), "video", false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	resp, env := app.do(t, http.MethodGet, "/?lang=en", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	landing := decode[struct {
		Language string            `json:"language"`
		Sections []string          `json:"sections"`
		Text     map[string]string `json:"text"`
	}](t, env.Data)

	if landing.Language != "en" {
		t.Errorf("language = %q, want en", landing.Language)
	}
	for _, id := range landing.Sections {
		if id == "video" {
			t.Error("hidden section video listed")
		}
	}
	if len(landing.Sections) != len(structs.SectionIDs)-1 {
		t.Errorf("got %d sections, want %d", len(landing.Sections), len(structs.SectionIDs)-1)
	}
	if got := landing.Text["header.home"]; got != "Home" {
		t.Errorf("header.home = %q, want Home", got)
	}
}

func TestCustomPageRedirectsWhenMissingOrHidden(t *testing.T) {
	app := newTestApp(t, testConfig())
	ctx := context.Background()

	if _, err := app.content.AddPage(ctx, &structs.PageRequest{Slug: "delivery", Title: "Delivery", Content: "<p>hi</p>", IsVisible: true}); err != nil {
		t.Fatalf("add page: %v", err)
	}
	if _, err := app.content.AddPage(ctx, &structs.PageRequest{Slug: "draft", Title: "Draft"}); err != nil {
		t.Fatalf("add page: %v", err)
	}

	resp, env := app.do(t, http.MethodGet, "/p/delivery", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("visible page status = %d", resp.StatusCode)
	}
	if page := decode[structs.CustomPage](t, env.Data); page.Title != "Delivery" {
		t.Errorf("title = %q", page.Title)
	}

	for _, slug := range []string{"draft", "nope"} {
		resp, _ := app.do(t, http.MethodGet, "/p/"+slug, nil)
		if resp.StatusCode != http.StatusFound {
			t.Errorf("%s: status = %d, want 302", slug, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/" {
			t.Errorf("%s: location = %q, want /", slug, loc)
		}
	}
}

func TestResolveUnknownKeyReturnsKey(t *testing.T) {
	app := newTestApp(t, testConfig())

	_, env := app.do(t, http.MethodGet, "/i18n/en/no.such.key", nil)
	got := decode[map[string]string](t, env.Data)
	if got["value"] != "no.such.key" {
		t.Errorf("value = %q, want the key", got["value"])
	}

	resp, _ := app.do(t, http.MethodGet, "/i18n/xx", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown language status = %d, want 404", resp.StatusCode)
	}
}

func TestProductsHidesInvisible(t *testing.T) {
	app := newTestApp(t, testConfig())
	hidden := false
	if _, err := app.content.UpdateProduct(context.Background(), "2", &structs.ProductPatch{IsVisible: &hidden}); err != nil {
		t.Fatalf("hide product: %v", err)
	}

	_, env := app.do(t, http.MethodGet, "/products?category="+url.QueryEscape("Домики"), nil)
	list := decode[struct {
		Products []structs.Product `json:"products"`
	}](t, env.Data)
	if len(list.Products) != 0 {
		t.Errorf("got %d products in hidden category", len(list.Products))
	}

	resp, _ := app.do(t, http.MethodGet, "/products/2", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("hidden product status = %d, want 404", resp.StatusCode)
	}
}

func TestOrderUsesCatalogPrice(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.fetchCSRF(t)

	resp, env := app.do(t, http.MethodPost, "/orders", structs.OrderRequest{
		CustomerName:  "Иван",
		CustomerPhone: "+79990000000",
		Address:       "Москва",
		Items: []structs.OrderItem{
			{ProductID: "1", ProductName: "x", Quantity: 3, Price: "1"},
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, env.Message)
	}

	got := decode[struct {
		Total  float64             `json:"total"`
		Status structs.OrderStatus `json:"status"`
	}](t, env.Data)
	if got.Total != 4500 {
		t.Errorf("total = %v, want 4500", got.Total)
	}
	if got.Status != structs.OrderStatusNew {
		t.Errorf("status = %q, want new", got.Status)
	}
	if n := len(app.content.Orders()); n != 1 {
		t.Errorf("stored orders = %d, want 1", n)
	}
}

func TestOrderRejectsUnknownProduct(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.fetchCSRF(t)

	resp, _ := app.do(t, http.MethodPost, "/orders", structs.OrderRequest{
		CustomerName:  "Иван",
		CustomerPhone: "+79990000000",
		Address:       "Москва",
		Items:         []structs.OrderItem{{ProductID: "missing", ProductName: "x", Quantity: 1, Price: "10"}},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestWritesRequireCSRFToken(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, _ := app.do(t, http.MethodPost, "/login/demo", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestAdminRequiresSignIn(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, _ := app.do(t, http.MethodGet, "/admin/products", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestDemoSessionLifecycle(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.signInDemo(t)

	_, env := app.do(t, http.MethodGet, "/auth/session", nil)
	state := decode[struct {
		User          *structs.User `json:"user"`
		Source        string        `json:"source"`
		Authenticated bool          `json:"authenticated"`
		IsAdmin       bool          `json:"is_admin"`
	}](t, env.Data)
	if !state.Authenticated || !state.IsAdmin {
		t.Fatalf("state = %+v, want authenticated admin", state)
	}
	if state.User == nil || state.User.Email != auth.DefaultDemoEmail {
		t.Errorf("user = %+v, want %s", state.User, auth.DefaultDemoEmail)
	}

	resp, _ := app.do(t, http.MethodGet, "/admin/products", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", resp.StatusCode)
	}

	resp, _ = app.do(t, http.MethodPost, "/logout", nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("logout location = %q, want /", loc)
	}

	resp, _ = app.do(t, http.MethodGet, "/admin/products", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("admin after logout status = %d, want 401", resp.StatusCode)
	}
}

func TestClientsDoNotShareSessions(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.signInDemo(t)

	jar, _ := cookiejar.New(nil)
	other := &testApp{server: app.server, content: app.content, client: &http.Client{Jar: jar}}

	_, env := other.do(t, http.MethodGet, "/auth/session", nil)
	state := decode[struct {
		Authenticated bool `json:"authenticated"`
	}](t, env.Data)
	if state.Authenticated {
		t.Error("second client sees the first client's demo session")
	}
}

func TestAdminProductCreateOfflineKeepsProductWithWarning(t *testing.T) {
	app := newTestApp(t, testConfig())
	app.signInDemo(t)

	resp, env := app.do(t, http.MethodPost, "/admin/products", structs.ProductRequest{
		Name:   "Новый товар",
		Price:  "990",
		Colors: []string{"#ABCDEF"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", resp.StatusCode, env.Message)
	}

	result := decode[struct {
		Result  structs.Product `json:"result"`
		Warning *lib.Alert      `json:"warning"`
	}](t, env.Data)
	if result.Result.ID == "" {
		t.Fatal("created product has no id")
	}
	if result.Result.Category != structs.DefaultCategory {
		t.Errorf("category = %q, want default", result.Result.Category)
	}
	if len(result.Result.Colors) != 1 || result.Result.Colors[0] != "#abcdef" {
		t.Errorf("colors = %v, want lowercased", result.Result.Colors)
	}
	if result.Warning == nil || result.Warning.Level != lib.AlertWarning {
		t.Errorf("warning = %+v, want offline warning", result.Warning)
	}
	if _, ok := app.content.Product(result.Result.ID); !ok {
		t.Error("product not kept in the store")
	}
}

func TestAdminOrderStatusTransitions(t *testing.T) {
	app := newTestApp(t, testConfig())
	order, err := app.content.AddOrder(context.Background(), &structs.OrderRequest{
		CustomerName: "Иван", CustomerPhone: "+79990000000", Address: "Москва",
		Items: []structs.OrderItem{{ProductID: "1", ProductName: "x", Quantity: 1, Price: "1500"}},
	})
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	app.signInDemo(t)

	resp, _ := app.do(t, http.MethodPut, "/admin/orders/"+order.ID+"/status", structs.OrderStatusRequest{Status: structs.OrderStatusCompleted})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("new -> completed status = %d, want 400", resp.StatusCode)
	}

	resp, _ = app.do(t, http.MethodPut, "/admin/orders/"+order.ID+"/status", structs.OrderStatusRequest{Status: structs.OrderStatusProcessing})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("new -> processing status = %d, want 200", resp.StatusCode)
	}

	resp, _ = app.do(t, http.MethodPut, "/admin/orders/unknown/status", structs.OrderStatusRequest{Status: structs.OrderStatusProcessing})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown order status = %d, want 404", resp.StatusCode)
	}
}

func TestRateLimitRejectsBurst(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = &structs.RateLimitConfig{
		Enabled:       true,
		GeneralLimit:  2,
		GeneralWindow: time.Minute,
	}
	app := newTestApp(t, cfg)

	var last *http.Response
	for i := 0; i < 3; i++ {
		last, _ = app.do(t, http.MethodGet, "/products", nil)
	}
	if last.StatusCode != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last.StatusCode)
	}
	if last.Header.Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("remaining = %q, want 0", last.Header.Get("X-RateLimit-Remaining"))
	}
}

func TestHealthServer(t *testing.T) {
	app := newTestApp(t, testConfig())

	resp, _ := app.do(t, http.MethodGet, "/health/server", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	resp, _ = app.do(t, http.MethodGet, "/health/database", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("database status = %d, want 200 with nothing configured", resp.StatusCode)
	}
}
