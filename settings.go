package dataobj

import "github.com/reoring/dataobj/rules"

// SetValidationLocale sets the locale the default rule engine renders
// messages in. It affects every later fill that does not pass its own
// validation settings.
func SetValidationLocale(locale string) { rules.SetLocale(locale) }

// ValidationLocale returns the process-wide validation locale.
func ValidationLocale() string { return rules.Current().Locale }

// SetValidationCatalogPath sets a message catalog file or directory that is
// tried before the conventional locations. An empty path disables it.
func SetValidationCatalogPath(path string) { rules.SetCatalogPath(path) }

// ValidationCatalogPath returns the custom catalog path, if any.
func ValidationCatalogPath() string { return rules.Current().CatalogPath }

// ResetValidationSettings restores the default locale, clears the catalog
// path and drops cached catalogs.
func ResetValidationSettings() { rules.Reset() }
