package translate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/types"
)

const sourceCV = `
name: Jane Doe
title: Senior Platform Engineer
contact:
  email: jane@example.com
profile: Platform engineer with ten years of experience.
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    bullets:
      - Built the deployment pipeline
`

const translatedCV = `
name: Jane Doe
title: Leitende Plattform-Ingenieurin
contact:
  email: jane@example.com
profile: Plattform-Ingenieurin mit zehn Jahren Erfahrung.
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
    bullets:
      - Aufbau der Deployment-Pipeline
`

type stubProvider struct {
	calls    int
	response string
	err      error
}

func (s *stubProvider) Translate(_ context.Context, _ types.TranslateInput) (string, *types.TokenUsage, error) {
	s.calls++
	if s.err != nil {
		return "", nil, s.err
	}
	return s.response, &types.TokenUsage{InputTokens: 100, OutputTokens: 90, TotalTokens: 190}, nil
}

func parseSource(t *testing.T) *cv.Document {
	t.Helper()
	doc, err := cv.Parse([]byte(sourceCV))
	require.NoError(t, err)
	return doc
}

func TestTranslateEnglishIsIdentity(t *testing.T) {
	provider := &stubProvider{response: translatedCV}
	tr := New(provider, t.TempDir(), nil)

	doc := parseSource(t)
	out, usage, err := tr.Translate(context.Background(), doc, "en", false)
	require.NoError(t, err)
	assert.Same(t, doc, out)
	assert.Nil(t, usage)
	assert.Zero(t, provider.calls)
}

func TestTranslateCallsProviderAndCaches(t *testing.T) {
	provider := &stubProvider{response: translatedCV}
	dir := t.TempDir()
	tr := New(provider, dir, nil)
	doc := parseSource(t)

	out, usage, err := tr.Translate(context.Background(), doc, "de", false)
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, "Leitende Plattform-Ingenieurin", out.Title)

	// Second run with identical source hits the cache.
	out2, usage2, err := tr.Translate(context.Background(), doc, "de", false)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
	assert.Nil(t, usage2)
	assert.Equal(t, out.Title, out2.Title)
}

func TestTranslateSourceChangeInvalidatesCache(t *testing.T) {
	provider := &stubProvider{response: translatedCV}
	dir := t.TempDir()
	tr := New(provider, dir, nil)

	_, _, err := tr.Translate(context.Background(), parseSource(t), "de", false)
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	changed, err := cv.Parse([]byte(sourceCV))
	require.NoError(t, err)
	changed.Profile = "Now doing something else entirely."

	_, _, err = tr.Translate(context.Background(), changed, "de", false)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls, "changed source must miss the cache")
}

func TestTranslateRefreshSkipsCache(t *testing.T) {
	provider := &stubProvider{response: translatedCV}
	tr := New(provider, t.TempDir(), nil)
	doc := parseSource(t)

	_, _, err := tr.Translate(context.Background(), doc, "de", false)
	require.NoError(t, err)
	_, _, err = tr.Translate(context.Background(), doc, "de", true)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestTranslateNoProviderFallsBackToCache(t *testing.T) {
	dir := t.TempDir()
	doc := parseSource(t)

	// Seed the cache through a provider-backed translator.
	seeded := New(&stubProvider{response: translatedCV}, dir, nil)
	_, _, err := seeded.Translate(context.Background(), doc, "de", false)
	require.NoError(t, err)

	// A provider-less translator still serves the cached result, even for
	// a changed source.
	doc.Profile = "Changed since the translation was cached."
	tr := New(nil, dir, nil)
	out, _, err := tr.Translate(context.Background(), doc, "de", false)
	require.NoError(t, err)
	assert.Equal(t, "Leitende Plattform-Ingenieurin", out.Title)
}

func TestTranslateNoProviderNoCacheFails(t *testing.T) {
	tr := New(nil, t.TempDir(), nil)
	_, _, err := tr.Translate(context.Background(), parseSource(t), "de", false)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeMissingAPIKey, appErr.Code)
}

func TestTranslateRejectsMalformedResponse(t *testing.T) {
	provider := &stubProvider{response: "not: [valid"}
	tr := New(provider, t.TempDir(), nil)

	_, _, err := tr.Translate(context.Background(), parseSource(t), "de", false)
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrCodeAIServiceFailed, appErr.Code)
}

func TestContentHashDependsOnLang(t *testing.T) {
	src := []byte("name: Jane\n")
	assert.NotEqual(t, ContentHash(src, "de"), ContentHash(src, "fr"))
	assert.Equal(t, ContentHash(src, "de"), ContentHash(src, "de"))
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(t.TempDir())
	require.NoError(t, c.Store("de", "abc", translatedCV))
	_, ok := c.LookupAny("de")
	require.True(t, ok)

	require.NoError(t, c.Invalidate("de"))
	_, ok = c.LookupAny("de")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate("de"), "double invalidate is fine")
}
