package structs

// Translations maps a dot-namespaced key to its value per language.
type Translations map[string]map[string]string

func (t Translations) Set(key, lang, value string) {
	if t[key] == nil {
		t[key] = make(map[string]string)
	}
	t[key][lang] = value
}

func (t Translations) Get(key, lang string) (string, bool) {
	v, ok := t[key][lang]
	return v, ok
}

// Merge copies every entry of other over t, per key and language.
func (t Translations) Merge(other Translations) {
	for key, langs := range other {
		for lang, value := range langs {
			t.Set(key, lang, value)
		}
	}
}

func (t Translations) Clone() Translations {
	out := make(Translations, len(t))
	out.Merge(t)
	return out
}

type TranslationEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Lang  string `json:"lang"`
}

type TranslationRequest struct {
	Key   string `json:"key" validate:"required,max=200"`
	Value string `json:"value" validate:"max=20000"`
	Lang  string `json:"lang" validate:"omitempty,min=2,max=8"`
}

// Sections holds explicit visibility flags. A missing id is visible.
type Sections map[string]bool

func (s Sections) Visible(id string) bool {
	visible, ok := s[id]
	return !ok || visible
}

func (s Sections) Clone() Sections {
	out := make(Sections, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type SectionRequest struct {
	Visible *bool `json:"visible" validate:"required"`
}

// SectionIDs lists the page regions the landing page knows about.
var SectionIDs = []string{"header", "home", "showcase", "bento", "video", "about", "price", "help", "store", "cta", "footer"}

type Review struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Date   string `json:"date"` // dd.mm.yyyy
	Text   string `json:"text"`
}

type ReviewRequest struct {
	Author string `json:"author" validate:"required,min=1,max=100"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"required,min=1,max=2000"`
}

type CustomPage struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Content   string `json:"content"` // raw HTML
	IsVisible bool   `json:"isVisible"`
}

type PageRequest struct {
	Slug      string `json:"slug" validate:"required,slug,max=100"`
	Title     string `json:"title" validate:"required,max=200"`
	Content   string `json:"content"`
	IsVisible bool   `json:"isVisible"`
}

type PagePatch struct {
	Slug      *string `json:"slug" validate:"omitempty,slug,max=100"`
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Content   *string `json:"content"`
	IsVisible *bool   `json:"isVisible"`
}

func (pp *PagePatch) Apply(p CustomPage) CustomPage {
	if pp.Slug != nil {
		p.Slug = *pp.Slug
	}
	if pp.Title != nil {
		p.Title = *pp.Title
	}
	if pp.Content != nil {
		p.Content = *pp.Content
	}
	if pp.IsVisible != nil {
		p.IsVisible = *pp.IsVisible
	}
	return p
}

func (pp *PagePatch) Columns() map[string]any {
	cols := make(map[string]any)
	if pp.Slug != nil {
		cols["slug"] = *pp.Slug
	}
	if pp.Title != nil {
		cols["title"] = *pp.Title
	}
	if pp.Content != nil {
		cols["content"] = *pp.Content
	}
	if pp.IsVisible != nil {
		cols["is_visible"] = *pp.IsVisible
	}
	return cols
}
