package theme

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"resumake/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeThemeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveDefault(t *testing.T) {
	th, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "classic", th.Name)
	assert.Equal(t, LayoutTwoColumn, th.Layout.Type)
	assert.Equal(t, "0F141F", th.Colors.Primary)
	assert.Equal(t, "0AA8A7", th.Colors.Accent)
	assert.Equal(t, "Arial Narrow", th.Fonts.Heading)
	assert.Equal(t, "Calibri", th.Fonts.Body)
	assert.InDelta(t, 5.3, th.Layout.SidebarWidthCM, 0.001)
	assert.InDelta(t, 12.7, th.Layout.MainWidthCM, 0.001)
	assert.InDelta(t, 13, th.Sizes.NamePT, 0.001)
}

func TestResolveBuiltins(t *testing.T) {
	for _, name := range []string{"classic", "minimal", "modern"} {
		t.Run(name, func(t *testing.T) {
			th, err := Resolve(name)
			require.NoError(t, err)
			assert.Equal(t, name, th.Name)
			require.NoError(t, th.Validate())
		})
	}
}

func TestResolveUnknownBuiltin(t *testing.T) {
	_, err := Resolve("neon")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrCodeThemeNotFound, appErr.Code)
	assert.Contains(t, appErr.Message, "neon")
}

// A partial override keeps every unspecified field of the classic base.
func TestResolveOverrideMergesFieldByField(t *testing.T) {
	path := writeThemeFile(t, `
colors:
  accent: "CC0000"
sizes:
  body_pt: 10
`)
	th, err := Resolve(path)
	require.NoError(t, err)

	assert.Equal(t, "CC0000", th.Colors.Accent)
	assert.Equal(t, "0F141F", th.Colors.Primary, "unset color must inherit the base")
	assert.Equal(t, "FFFFFF", th.Colors.TextLight)
	assert.InDelta(t, 10, th.Sizes.BodyPT, 0.001)
	assert.InDelta(t, 13, th.Sizes.NamePT, 0.001, "unset size must inherit the base")
	assert.Equal(t, "Calibri", th.Fonts.Body)
	assert.Equal(t, LayoutTwoColumn, th.Layout.Type)
}

func TestResolveOverrideLeadingHash(t *testing.T) {
	path := writeThemeFile(t, `
colors:
  primary: "#1B2A41"
`)
	th, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "1B2A41", th.Colors.Primary)
}

func TestResolveOverrideName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corporate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors:\n  accent: \"336699\"\n"), 0o644))

	th, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", th.Name, "file themes default to the name custom")

	named := writeThemeFile(t, "name: corporate\n")
	th, err = Resolve(named)
	require.NoError(t, err)
	assert.Equal(t, "corporate", th.Name)
}

func TestResolveMissingFile(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "gone.yaml"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrCodeThemeNotFound, appErr.Code)
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantField string
	}{
		{
			name: "color too short",
			content: `
colors:
  accent: "0AA"
`,
			wantField: "colors.accent",
		},
		{
			name: "color not hex",
			content: `
colors:
  primary: "GGGGGG"
`,
			wantField: "colors.primary",
		},
		{
			name: "unknown layout type",
			content: `
layout:
  layout_type: three-column
`,
			wantField: "layout.layout_type",
		},
		{
			name: "zero sidebar width",
			content: `
layout:
  sidebar_width_cm: 0
`,
			wantField: "layout.sidebar_width_cm",
		},
		{
			name: "negative margin",
			content: `
layout:
  page_top_margin_cm: -0.5
`,
			wantField: "layout.page_top_margin_cm",
		},
		{
			name: "non-positive size",
			content: `
sizes:
  heading_pt: 0
`,
			wantField: "sizes.heading_pt",
		},
		{
			name: "empty font",
			content: `
fonts:
  body: ""
`,
			wantField: "fonts.body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(writeThemeFile(t, tt.content))
			require.Error(t, err)

			var appErr *errors.AppError
			require.True(t, stderrors.As(err, &appErr))
			assert.Equal(t, errors.ErrCodeThemeValidation, appErr.Code)
			assert.Equal(t, tt.wantField, appErr.Context["field"])
		})
	}
}

func TestResolveMalformedFile(t *testing.T) {
	_, err := Resolve(writeThemeFile(t, "colors: [not, a, mapping"))
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, stderrors.As(err, &appErr))
	assert.Equal(t, errors.ErrCodeInvalidFormat, appErr.Code)
}

func TestResolveUnknownKeyRejected(t *testing.T) {
	_, err := Resolve(writeThemeFile(t, "colours:\n  accent: \"CC0000\"\n"))
	require.Error(t, err)
}

func TestResolveEmptyFileIsClassic(t *testing.T) {
	th, err := Resolve(writeThemeFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "0F141F", th.Colors.Primary)
	assert.Equal(t, LayoutTwoColumn, th.Layout.Type)
}

func TestListSorted(t *testing.T) {
	themes := List()
	require.Len(t, themes, 3)
	assert.Equal(t, []string{"classic", "minimal", "modern"}, Names())
	assert.Equal(t, "classic", themes[0].Name)
}

func TestLayoutTypeValid(t *testing.T) {
	assert.True(t, LayoutTwoColumn.Valid())
	assert.True(t, LayoutSingleColumn.Valid())
	assert.True(t, LayoutAcademic.Valid())
	assert.True(t, LayoutCompact.Valid())
	assert.False(t, LayoutType("three-column").Valid())
	assert.False(t, LayoutType("").Valid())
}

func TestContentWidth(t *testing.T) {
	th, err := Resolve("classic")
	require.NoError(t, err)
	assert.InDelta(t, 18.0, th.ContentWidthCM(), 0.001)
}
