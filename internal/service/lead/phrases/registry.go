// Package phrases holds the static multilingual phrase tables used by the
// fallback extractor and the completion detector. The matching algorithm is
// language-agnostic; adding a language is adding a YAML file.
package phrases

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Category selects one phrase list within a language table.
type Category string

const (
	CategoryGreeting        Category = "greeting"
	CategoryNameAsk         Category = "name_ask"
	CategoryPhoneAsk        Category = "phone_ask"
	CategoryPreamble        Category = "preamble"
	CategoryContentStart    Category = "content_start"
	CategoryClosingComplete Category = "closing_complete"
	CategoryClosingDeclined Category = "closing_declined"
)

// fallbackLanguage is consulted when the session language has no table or no
// match; assistant replies mix languages often enough that checking English
// too catches real phrasings.
const fallbackLanguage = "en"

// optionMarkers flag an enumerated-options question regardless of language.
var optionMarkers = []string{"1)", "2)", "3)", "a)", "b)", "c)", "\n- ", "\n• "}

// table is one language's phrase lists.
type table struct {
	Language         string   `yaml:"language"`
	Greeting         []string `yaml:"greeting"`
	NameAsk          []string `yaml:"name_ask"`
	PhoneAsk         []string `yaml:"phone_ask"`
	Preamble         []string `yaml:"preamble"`
	ContentStart     []string `yaml:"content_start"`
	ClosingComplete  []string `yaml:"closing_complete"`
	ClosingDeclined  []string `yaml:"closing_declined"`
	Acknowledgements []string `yaml:"acknowledgements"`
	ConnectError     string   `yaml:"connect_error"`
}

func (t *table) list(cat Category) []string {
	switch cat {
	case CategoryGreeting:
		return t.Greeting
	case CategoryNameAsk:
		return t.NameAsk
	case CategoryPhoneAsk:
		return t.PhoneAsk
	case CategoryPreamble:
		return t.Preamble
	case CategoryContentStart:
		return t.ContentStart
	case CategoryClosingComplete:
		return t.ClosingComplete
	case CategoryClosingDeclined:
		return t.ClosingDeclined
	default:
		return nil
	}
}

// Registry holds the loaded phrase tables for all supported languages.
type Registry struct {
	languages map[string]*table
	mu        sync.RWMutex
}

// NewRegistry loads the embedded YAML phrase tables.
func NewRegistry() (*Registry, error) {
	r := &Registry{languages: make(map[string]*table)}

	entries, err := configFiles.ReadDir("config")
	if err != nil {
		return nil, fmt.Errorf("read phrase config dir: %w", err)
	}

	for _, entry := range entries {
		data, err := configFiles.ReadFile("config/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}

		var t table
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", entry.Name(), err)
		}
		if t.Language == "" {
			return nil, fmt.Errorf("%s: missing language code", entry.Name())
		}
		r.languages[t.Language] = &t
	}

	if _, ok := r.languages[fallbackLanguage]; !ok {
		return nil, fmt.Errorf("phrase tables must include %q", fallbackLanguage)
	}

	return r, nil
}

// Languages returns the loaded language codes.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]string, 0, len(r.languages))
	for code := range r.languages {
		codes = append(codes, code)
	}
	return codes
}

// Matches reports whether text contains any phrase of the given category in
// the given language (or in the fallback language).
func (r *Registry) Matches(lang string, cat Category, text string) bool {
	lowered := strings.ToLower(text)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tablesFor(lang) {
		for _, phrase := range t.list(cat) {
			if strings.Contains(lowered, strings.ToLower(phrase)) {
				return true
			}
		}
	}
	return false
}

// IsSetup reports whether text is part of session setup (greeting, contact
// collection, "how this works" preamble). Setup turns are always excluded
// from Q&A mining.
func (r *Registry) IsSetup(lang, text string) bool {
	return r.Matches(lang, CategoryGreeting, text) ||
		r.Matches(lang, CategoryNameAsk, text) ||
		r.Matches(lang, CategoryPhoneAsk, text) ||
		r.Matches(lang, CategoryPreamble, text)
}

// IsAcknowledgement reports whether text is a short confirmation ("yes",
// "ok", "thanks" or a local-language equivalent). Acknowledgements never
// start a Q&A pair.
func (r *Registry) IsAcknowledgement(lang, text string) bool {
	normalized := strings.ToLower(strings.Trim(strings.TrimSpace(text), ".,!?"))
	if normalized == "" {
		return true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.tablesFor(lang) {
		for _, ack := range t.Acknowledgements {
			if normalized == ack {
				return true
			}
		}
	}
	return false
}

// ErrorMessage returns the localized "having trouble connecting" message.
func (r *Registry) ErrorMessage(lang string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if t, ok := r.languages[lang]; ok && t.ConnectError != "" {
		return t.ConnectError
	}
	return r.languages[fallbackLanguage].ConnectError
}

// HasOptionsMarker reports whether text enumerates answer options, which
// marks a structured assistant question regardless of language.
func HasOptionsMarker(text string) bool {
	for _, marker := range optionMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// tablesFor returns the tables to consult for a language: the language's own
// table first, then the fallback table. Callers must hold the read lock.
func (r *Registry) tablesFor(lang string) []*table {
	tables := make([]*table, 0, 2)
	if t, ok := r.languages[lang]; ok {
		tables = append(tables, t)
	}
	if lang != fallbackLanguage {
		tables = append(tables, r.languages[fallbackLanguage])
	}
	return tables
}
