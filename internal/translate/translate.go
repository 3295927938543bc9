// Package translate turns the CV into another language through the
// configured LLM provider, with a content-hash cache so unchanged sources
// never pay for a second translation.
package translate

import (
	"context"
	"fmt"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/types"
)

// Provider is the slice of the AI surface translation needs.
type Provider interface {
	Translate(ctx context.Context, input types.TranslateInput) (string, *types.TokenUsage, error)
}

// Translator translates CV documents with caching. A nil provider is
// valid: cached translations still work, fresh ones fail with guidance.
type Translator struct {
	provider Provider
	cache    *Cache
	logger   *errors.Logger
}

// New creates a Translator caching under outputDir.
func New(provider Provider, outputDir string, logger *errors.Logger) *Translator {
	return &Translator{
		provider: provider,
		cache:    NewCache(outputDir),
		logger:   logger,
	}
}

// Translate returns the document in the target language. English input is
// returned unchanged. The cache is consulted first unless refresh is set;
// a hit is only used when the source content hash still matches.
func (t *Translator) Translate(ctx context.Context, doc *cv.Document, lang string, refresh bool) (*cv.Document, *types.TokenUsage, error) {
	if lang == "" || lang == "en" {
		return doc, nil, nil
	}

	srcYAML, err := cv.ToYAML(doc)
	if err != nil {
		return nil, nil, errors.NewInternalError("CV_ENCODE_FAILED", "Cannot serialize CV for translation", err)
	}
	hash := ContentHash(srcYAML, lang)

	if !refresh {
		if cached, ok := t.cache.Lookup(lang, hash); ok {
			if t.logger != nil {
				t.logger.Info("Using cached translation", "lang", lang, "cache", t.cache.Path(lang))
			}
			return cached, nil, nil
		}
	}

	if t.provider == nil {
		// A stale cache beats no output when no provider is configured.
		if cached, ok := t.cache.LookupAny(lang); ok {
			if t.logger != nil {
				t.logger.Warn("No LLM provider available, falling back to cached translation", "lang", lang)
			}
			return cached, nil, nil
		}
		return nil, nil, errors.NewAIError(errors.ErrCodeMissingAPIKey,
			fmt.Sprintf("Translation to %q needs an LLM provider and no cached translation exists. "+
				"Set ANTHROPIC_API_KEY, OPENAI_API_KEY, or GEMINI_API_KEY.", lang), nil)
	}

	translatedYAML, usage, err := t.provider.Translate(ctx, types.TranslateInput{
		CVYAML: string(srcYAML),
		Lang:   lang,
	})
	if err != nil {
		return nil, nil, err
	}

	translated, err := cv.Parse([]byte(translatedYAML))
	if err != nil {
		return nil, usage, errors.NewAIError(errors.ErrCodeAIServiceFailed,
			"Translated CV is not valid YAML in the expected structure", err)
	}

	if err := t.cache.Store(lang, hash, translatedYAML); err != nil {
		// Cache failures cost money next run, not correctness now.
		if t.logger != nil {
			t.logger.Warn("Cannot write translation cache", "lang", lang, "error", err)
		}
	} else if t.logger != nil {
		t.logger.Info("Cached translation", "lang", lang, "cache", t.cache.Path(lang))
	}

	return translated, usage, nil
}
