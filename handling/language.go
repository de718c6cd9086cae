package handling

import (
	"errors"
	"net/http"
	"sinemagic_server/lib"
	"strings"

	"golang.org/x/text/language"
)

// Language picks the display language: the lang query parameter, then the
// best Accept-Language match by weight, then fallback.
func Language(r *http.Request, supported []string, fallback string) string {
	if lang := strings.ToLower(r.URL.Query().Get("lang")); lang != "" && contains(supported, lang) {
		return lang
	}

	prefs, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(prefs) == 0 || len(supported) == 0 {
		return fallback
	}

	tags := make([]language.Tag, len(supported))
	for i, lang := range supported {
		tags[i] = language.Make(lang)
	}
	if _, idx, conf := language.NewMatcher(tags).Match(prefs...); conf != language.No {
		return supported[idx]
	}

	return fallback
}

// Warning reports whether err is a non-blocking alert.
func Warning(err error) (*lib.Alert, bool) {
	var alert *lib.Alert
	if errors.As(err, &alert) && !alert.Blocking() {
		return alert, true
	}
	return nil, false
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
