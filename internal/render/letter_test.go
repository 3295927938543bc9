package render

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumake/internal/cv"
	"resumake/internal/theme"
	"resumake/internal/types"
)

func letterFixture(t *testing.T) (*cv.Document, *theme.Theme) {
	t.Helper()
	doc, err := cv.Parse([]byte(`
name: Jane Doe
title: Senior Platform Engineer
contact:
  email: jane@example.com
  phone: "+49 30 1234567"
experience:
  - title: Staff Engineer
    org: Example Corp
    start: 2021
    end: Present
`))
	require.NoError(t, err)
	th, err := theme.Resolve(theme.DefaultName)
	require.NoError(t, err)
	return doc, th
}

func letterDocumentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatal("word/document.xml missing from package")
	return ""
}

func TestBuildLetter(t *testing.T) {
	doc, th := letterFixture(t)
	letter := types.CoverLetter{
		Recipient: "Acme GmbH",
		Subject:   "Application for Staff Engineer",
		Opening:   "I am writing to apply for the Staff Engineer role.",
		Body:      "First paragraph.\n\nSecond paragraph.",
		Closing:   "I look forward to hearing from you.",
	}

	data, err := BuildLetter(doc, letter, th, Options{Lang: "en"})
	require.NoError(t, err)

	xml := letterDocumentXML(t, data)
	assert.Contains(t, xml, "Dear Acme GmbH,")
	assert.Contains(t, xml, "Re: Application for Staff Engineer")
	assert.Contains(t, xml, "Sincerely,")
	assert.Contains(t, xml, "Jane Doe")
	assert.Contains(t, xml, "First paragraph.")
	assert.Contains(t, xml, "Second paragraph.")
	// blank-line split yields separate paragraphs, not one run
	assert.NotContains(t, xml, "First paragraph.</w:t></w:r><w:r>")
}

func TestBuildLetterDefaultsRecipient(t *testing.T) {
	doc, th := letterFixture(t)
	data, err := BuildLetter(doc, types.CoverLetter{Opening: "Hello."}, th, Options{})
	require.NoError(t, err)
	assert.Contains(t, letterDocumentXML(t, data), "Dear Hiring Manager,")
}

func TestBuildLetterNilInputs(t *testing.T) {
	_, th := letterFixture(t)
	_, err := BuildLetter(nil, types.CoverLetter{}, th, Options{})
	require.Error(t, err)
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("a\n\n  \n\nb\n\n")
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Nil(t, splitParagraphs("   "))
}

func TestLetterDate(t *testing.T) {
	assert.True(t, strings.Contains(letterDate("en"), ","), "english date is written out")
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, letterDate("de"))
}
