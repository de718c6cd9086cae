package site

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type pageLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type landingResponse struct {
	Language string            `json:"language"`
	Sections []string          `json:"sections"`
	Text     map[string]string `json:"text"`
	Products []structs.Product `json:"products,omitempty"`
	Reviews  []structs.Review  `json:"reviews,omitempty"`
	Pages    []pageLink        `json:"pages"`
	Loading  bool              `json:"loading"`
}

func (srm *SiteRoutesManager) language(r *http.Request) string {
	return handling.Language(r, srm.cfg.Languages, srm.cfg.DefaultLanguage)
}

// GetLanding returns the visible sections in page order with every string
// resolved for the requested language.
func (srm *SiteRoutesManager) GetLanding(w http.ResponseWriter, r *http.Request) {
	lang := srm.language(r)

	resp := landingResponse{
		Language: lang,
		Sections: make([]string, 0, len(structs.SectionIDs)),
		Text:     srm.resolver.Dictionary(lang),
		Pages:    []pageLink{},
		Loading:  srm.content.Loading(),
	}

	for _, id := range structs.SectionIDs {
		if srm.content.SectionVisible(id) {
			resp.Sections = append(resp.Sections, id)
		}
	}
	if srm.content.SectionVisible("store") {
		resp.Products = srm.content.VisibleProducts()
	}
	if srm.content.SectionVisible("showcase") {
		resp.Reviews = srm.content.Reviews()
	}
	for _, p := range srm.content.Pages() {
		if p.IsVisible {
			resp.Pages = append(resp.Pages, pageLink{Slug: p.Slug, Title: p.Title})
		}
	}

	gecho.Success(w,
		gecho.WithData(resp),
		gecho.Send(),
	)
}

// GetContent returns the raw read model. Hidden products and pages are
// left out; admins read them through /admin.
func (srm *SiteRoutesManager) GetContent(w http.ResponseWriter, r *http.Request) {
	snapshot := srm.content.Snapshot()
	snapshot.Products = srm.content.VisibleProducts()

	pages := snapshot.Pages[:0]
	for _, p := range snapshot.Pages {
		if p.IsVisible {
			pages = append(pages, p)
		}
	}
	snapshot.Pages = pages

	gecho.Success(w,
		gecho.WithData(snapshot),
		gecho.Send(),
	)
}

// GetPage serves a custom page. Unknown and hidden pages send the visitor
// back to the landing page.
func (srm *SiteRoutesManager) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, ok := srm.content.PageBySlug(slug)
	if !ok {
		srm.logger.Debug("Custom page not found, redirecting", gecho.Field("slug", slug))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	gecho.Success(w,
		gecho.WithData(page),
		gecho.Send(),
	)
}
