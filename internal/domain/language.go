package domain

import "strings"

// Language describes one executable language offered by the execution engine
type Language struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Aliases []string `json:"aliases"`
	Runtime string   `json:"runtime"`
}

// LanguageRegistry is an immutable catalogue of executable languages.
// It is built once at startup from the execution engine and never mutated.
type LanguageRegistry struct {
	languages []Language
	byName    map[string]*Language
}

// NewLanguageRegistry builds a registry from the given languages.
// Aliases resolve to their language; name lookups are case-insensitive.
func NewLanguageRegistry(languages []Language) *LanguageRegistry {
	r := &LanguageRegistry{
		languages: make([]Language, len(languages)),
		byName:    make(map[string]*Language),
	}
	copy(r.languages, languages)

	for i := range r.languages {
		lang := &r.languages[i]
		r.byName[strings.ToLower(lang.Name)] = lang
		for _, alias := range lang.Aliases {
			if _, exists := r.byName[strings.ToLower(alias)]; !exists {
				r.byName[strings.ToLower(alias)] = lang
			}
		}
	}

	return r
}

// Lookup resolves a language by name or alias
func (r *LanguageRegistry) Lookup(name string) (Language, error) {
	lang, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return Language{}, ErrUnknownLanguage
	}
	return *lang, nil
}

// All returns every registered language in registration order
func (r *LanguageRegistry) All() []Language {
	out := make([]Language, len(r.languages))
	copy(out, r.languages)
	return out
}

// Len returns the number of registered languages
func (r *LanguageRegistry) Len() int {
	return len(r.languages)
}
