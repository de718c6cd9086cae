// Package i18n resolves display strings for a language from the content
// store, falling back to the embedded static tables.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sinemagic_server/structs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// BaseLanguage is consulted when a key is missing in the requested
// language.
const BaseLanguage = "ru"

//go:embed locales/*.yaml
var localesFS embed.FS

// TranslationSource is the editable translation map, usually the content
// store.
type TranslationSource interface {
	Translation(key, lang string) (string, bool)
	Translations() structs.Translations
}

type Resolver struct {
	source TranslationSource
	static map[string]map[string]any
}

// LoadStatic parses the embedded tables, one per language file.
func LoadStatic() (map[string]map[string]any, error) {
	entries, err := localesFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	tables := make(map[string]map[string]any, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if path.Ext(name) != ".yaml" {
			continue
		}
		data, err := localesFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, err
		}
		var table map[string]any
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		tables[strings.TrimSuffix(name, ".yaml")] = table
	}
	return tables, nil
}

// NewResolver builds a resolver over source. A nil source resolves from
// the static tables only.
func NewResolver(source TranslationSource) (*Resolver, error) {
	static, err := LoadStatic()
	if err != nil {
		return nil, err
	}
	return &Resolver{source: source, static: static}, nil
}

// Resolve looks key up in the content translations, then in the static
// table for lang, then in the base language table. The key itself is
// returned when nothing matches.
func (r *Resolver) Resolve(key, lang string) string {
	if r.source != nil {
		if v, ok := r.source.Translation(key, lang); ok {
			return v
		}
	}
	if v, ok := lookup(r.static[lang], key); ok {
		return v
	}
	if v, ok := lookup(r.static[BaseLanguage], key); ok {
		return v
	}
	return key
}

// Dictionary resolves every known key for lang.
func (r *Resolver) Dictionary(lang string) map[string]string {
	keys := make(map[string]struct{})
	for _, table := range r.static {
		flatten("", table, func(k, _ string) { keys[k] = struct{}{} })
	}
	if r.source != nil {
		for k := range r.source.Translations() {
			keys[k] = struct{}{}
		}
	}

	out := make(map[string]string, len(keys))
	for k := range keys {
		out[k] = r.Resolve(k, lang)
	}
	return out
}

// Languages lists the languages with a static table.
func (r *Resolver) Languages() []string {
	langs := make([]string, 0, len(r.static))
	for lang := range r.static {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Flatten returns every static string as a translation map. The content
// store starts from it.
func (r *Resolver) Flatten() structs.Translations {
	out := make(structs.Translations)
	for lang, table := range r.static {
		flatten("", table, func(k, v string) { out.Set(k, lang, v) })
	}
	return out
}

func lookup(table map[string]any, key string) (string, bool) {
	if table == nil {
		return "", false
	}
	var node any = table
	for _, segment := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		if node, ok = m[segment]; !ok {
			return "", false
		}
	}
	return leaf(node)
}

func leaf(node any) (string, bool) {
	switch v := node.(type) {
	case string:
		return v, true
	case int, int64, float64, bool:
		return fmt.Sprint(v), true
	}
	return "", false
}

func flatten(prefix string, table map[string]any, fn func(key, value string)) {
	for k, node := range table {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if child, ok := node.(map[string]any); ok {
			flatten(key, child, fn)
			continue
		}
		if v, ok := leaf(node); ok {
			fn(key, v)
		}
	}
}
