package locales

import (
	"net/http"
	"sinemagic_server/i18n"
	"slices"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// LocaleRoutesManager exposes the language resolver.
type LocaleRoutesManager struct {
	logger   *gecho.Logger
	resolver *i18n.Resolver
}

func NewLocaleRoutesManager(logger *gecho.Logger, resolver *i18n.Resolver) *LocaleRoutesManager {
	return &LocaleRoutesManager{
		logger:   logger,
		resolver: resolver,
	}
}

func (lrm *LocaleRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/i18n", func(r chi.Router) {
		r.Get("/", lrm.ListLanguages)
		r.Get("/{lang}", lrm.GetDictionary)
		r.Get("/{lang}/{key}", lrm.ResolveKey)
	})
}

func (lrm *LocaleRoutesManager) ListLanguages(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"languages": lrm.resolver.Languages(),
			"base":      i18n.BaseLanguage,
		}),
		gecho.Send(),
	)
}

func (lrm *LocaleRoutesManager) GetDictionary(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	if !slices.Contains(lrm.resolver.Languages(), lang) {
		gecho.NotFound(w, gecho.WithMessage("Unknown language"), gecho.Send())
		return
	}

	gecho.Success(w,
		gecho.WithData(lrm.resolver.Dictionary(lang)),
		gecho.Send(),
	)
}

// ResolveKey resolves one key. Unknown languages fall through to the base
// table, and an unknown key resolves to itself.
func (lrm *LocaleRoutesManager) ResolveKey(w http.ResponseWriter, r *http.Request) {
	lang := chi.URLParam(r, "lang")
	key := chi.URLParam(r, "key")

	gecho.Success(w,
		gecho.WithData(map[string]string{
			"key":   key,
			"lang":  lang,
			"value": lrm.resolver.Resolve(key, lang),
		}),
		gecho.Send(),
	)
}
