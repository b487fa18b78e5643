package validation

import (
	"errors"
	"strings"
)

// ErrMissingTranslator is passed to the missing handler when no Translator is
// configured.
var ErrMissingTranslator = errors.New("validation: translator not configured")

// Translator resolves a message key for a locale. args carries a single map
// with the formatted "value" of the check, if any.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the text used when a key cannot be
// translated. fallback is the English sentence.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// Option configures a Describer.
type Option func(*Describer)

// WithTranslator routes every sentence through t.
func WithTranslator(t Translator) Option {
	return func(d *Describer) {
		d.translator = t
	}
}

// WithLocale sets the locale passed to the Translator.
func WithLocale(locale string) Option {
	return func(d *Describer) {
		d.locale = strings.TrimSpace(locale)
	}
}

// WithMissingTranslationHandler overrides the English fallback.
func WithMissingTranslationHandler(handler MissingTranslationHandler) Option {
	return func(d *Describer) {
		d.onMissing = handler
	}
}

// Describer turns constraint descriptions into rule text. It is immutable
// after construction and safe for concurrent use.
type Describer struct {
	translator Translator
	locale     string
	onMissing  MissingTranslationHandler
}

// NewDescriber builds a Describer. Without options it produces English.
func NewDescriber(opts ...Option) *Describer {
	d := &Describer{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Locale returns the configured locale.
func (d *Describer) Locale() string { return d.locale }

func (d *Describer) translate(key, fallback, value string) string {
	if d.translator == nil {
		if d.onMissing != nil {
			return d.onMissing(d.locale, key, fallback, ErrMissingTranslator)
		}
		return fallback
	}

	result, err := d.translator.Translate(d.locale, key, map[string]any{"value": value})
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if d.onMissing != nil {
		return d.onMissing(d.locale, key, fallback, err)
	}
	return fallback
}
