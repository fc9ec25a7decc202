// Package localization maps stable machine error codes to human-readable
// messages. The deployment is French-facing, so French is the default and
// English the fallback for keys without a translation.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed locales/*.json
var localeFS embed.FS

// Localizer resolves message keys per language.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer loads every embedded locale file. File names are the
// language code (e.g. "fr.json").
func NewLocalizer() (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded locales: %w", err)
	}

	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")

		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", entry.Name(), err)
		}
		l.translations[lang] = translations
	}

	return l, nil
}

// GetString returns the localized message for key in lang, falling back
// to French and finally to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if t, ok := l.translations[lang]; ok {
		if value, ok := t[key]; ok {
			return value
		}
	}

	if lang != "fr" {
		if t, ok := l.translations["fr"]; ok {
			if value, ok := t[key]; ok {
				return value
			}
		}
	}

	return key
}
