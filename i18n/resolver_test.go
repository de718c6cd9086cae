package i18n

import (
	"context"
	"sinemagic_server/config"
	"sinemagic_server/content"
	"sinemagic_server/mirror"
	"sinemagic_server/structs"
	"testing"
)

type mapSource structs.Translations

func (m mapSource) Translation(key, lang string) (string, bool) {
	return structs.Translations(m).Get(key, lang)
}

func (m mapSource) Translations() structs.Translations {
	return structs.Translations(m)
}

func TestResolveOrder(t *testing.T) {
	source := mapSource{}
	structs.Translations(source).Set("hero.generate", "en", "Make it")

	r, err := NewResolver(source)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	cases := []struct {
		key, lang, want string
	}{
		{"hero.generate", "en", "Make it"},
		{"hero.generating", "en", "Generating..."},
		{"price.plan_basic_price", "en", "990 ₽"},
		{"video.url", "en", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"hero.generating", "de", "Генерация..."},
		{"hero", "en", "hero"},
		{"missing.key", "ru", "missing.key"},
	}
	for _, tc := range cases {
		if got := r.Resolve(tc.key, tc.lang); got != tc.want {
			t.Errorf("Resolve(%q, %q) = %q, want %q", tc.key, tc.lang, got, tc.want)
		}
	}
}

func TestFlattenCoversStaticKeys(t *testing.T) {
	r, err := NewResolver(nil)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	flat := r.Flatten()
	if v, ok := flat.Get("footer.telegram", "ru"); !ok || v != "Telegram" {
		t.Errorf("expected footer.telegram in flattened table, got %q", v)
	}
	if _, ok := flat.Get("hero", "ru"); ok {
		t.Error("expected only leaf keys")
	}
	if got := r.Languages(); len(got) != 2 || got[0] != "en" || got[1] != "ru" {
		t.Errorf("unexpected languages %v", got)
	}
}

func TestUpdateTranslationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := content.New(content.Options{Mirror: mirror.NewMemory(), Logger: config.NewLogger(false)})
	store.Refresh(ctx)

	r, err := NewResolver(store)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	if err := store.UpdateTranslation(ctx, "hero.generate", "Поехали", "ru"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := r.Resolve("hero.generate", "ru"); got != "Поехали" {
		t.Errorf("expected updated value, got %q", got)
	}

	dict := r.Dictionary("ru")
	if dict["hero.generate"] != "Поехали" || dict["footer.home"] != "Главная" {
		t.Errorf("unexpected dictionary entries: %q, %q", dict["hero.generate"], dict["footer.home"])
	}
}
