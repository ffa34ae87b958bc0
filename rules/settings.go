package rules

import (
	"sync"

	"github.com/reoring/dataobj/i18n"
)

// Settings configures message rendering for a Validator.
type Settings struct {
	Locale string
	// CatalogPath is an explicit catalog file or directory tried before the
	// conventional locations.
	CatalogPath string
	// Builtin enables the embedded catalogs when nothing is found on disk.
	Builtin bool
	// Translator replaces catalog lookup entirely when set.
	Translator i18n.Translator
}

// DefaultSettings returns the settings restored by Reset.
func DefaultSettings() Settings {
	return Settings{Locale: i18n.DefaultLocale}
}

var (
	settingsMu sync.RWMutex
	current    = DefaultSettings()
)

// Current returns a copy of the process-wide settings used by Default.
func Current() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return current
}

// SetLocale sets the process-wide validation locale. An empty locale
// restores the default.
func SetLocale(locale string) {
	if locale == "" {
		locale = i18n.DefaultLocale
	}
	settingsMu.Lock()
	current.Locale = locale
	settingsMu.Unlock()
}

// SetCatalogPath sets the process-wide custom catalog path. An empty path
// disables it.
func SetCatalogPath(path string) {
	settingsMu.Lock()
	current.CatalogPath = path
	settingsMu.Unlock()
}

// SetBuiltinCatalogs toggles the embedded catalog fallback.
func SetBuiltinCatalogs(on bool) {
	settingsMu.Lock()
	current.Builtin = on
	settingsMu.Unlock()
}

// SetTranslator replaces catalog lookup with tr. A nil tr restores catalog
// lookup.
func SetTranslator(tr i18n.Translator) {
	settingsMu.Lock()
	current.Translator = tr
	settingsMu.Unlock()
}

// Reset restores the default settings and drops cached catalogs.
func Reset() {
	settingsMu.Lock()
	current = DefaultSettings()
	settingsMu.Unlock()
	i18n.ClearCache()
}
