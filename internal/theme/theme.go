// Package theme resolves the visual theme a document is rendered with.
// Themes are bundles of colors, fonts, layout proportions and point sizes.
// A user theme file is a partial override merged field by field onto a
// builtin base, so setting only `accent` never blanks out `primary`.
package theme

import (
	"fmt"
	"regexp"
	"strings"

	"resumake/internal/errors"
)

// LayoutType selects the renderer's layout policy.
type LayoutType string

const (
	LayoutTwoColumn    LayoutType = "two-column"
	LayoutSingleColumn LayoutType = "single-column"
	LayoutAcademic     LayoutType = "academic"
	LayoutCompact      LayoutType = "compact"
)

// Valid reports whether the layout type is one of the recognized values.
func (lt LayoutType) Valid() bool {
	switch lt {
	case LayoutTwoColumn, LayoutSingleColumn, LayoutAcademic, LayoutCompact:
		return true
	}
	return false
}

// Theme is the fully resolved appearance of a document. All fields are
// populated after Resolve; renderers read it without further defaulting.
type Theme struct {
	Name   string `yaml:"name" json:"name"`
	Colors Colors `yaml:"colors" json:"colors"`
	Fonts  Fonts  `yaml:"fonts" json:"fonts"`
	Layout Layout `yaml:"layout" json:"layout"`
	Sizes  Sizes  `yaml:"sizes" json:"sizes"`
}

// Colors are 6-hex-digit strings without a leading '#'.
type Colors struct {
	Primary   string `yaml:"primary" json:"primary"`
	Accent    string `yaml:"accent" json:"accent"`
	TextLight string `yaml:"text_light" json:"text_light"`
	TextMuted string `yaml:"text_muted" json:"text_muted"`
	TextBody  string `yaml:"text_body" json:"text_body"`
}

// Fonts are family names used literally. No check that they are installed.
type Fonts struct {
	Heading string `yaml:"heading" json:"heading"`
	Body    string `yaml:"body" json:"body"`
}

// Layout controls the sidebar/main split and page margins. The page size
// itself is fixed (A4); the theme only divides its content width.
type Layout struct {
	Type               LayoutType `yaml:"layout_type" json:"layout_type"`
	SidebarWidthCM     float64    `yaml:"sidebar_width_cm" json:"sidebar_width_cm"`
	MainWidthCM        float64    `yaml:"main_width_cm" json:"main_width_cm"`
	PageTopMarginCM    float64    `yaml:"page_top_margin_cm" json:"page_top_margin_cm"`
	PageBottomMarginCM float64    `yaml:"page_bottom_margin_cm" json:"page_bottom_margin_cm"`
	PageLeftMarginCM   float64    `yaml:"page_left_margin_cm" json:"page_left_margin_cm"`
	PageRightMarginCM  float64    `yaml:"page_right_margin_cm" json:"page_right_margin_cm"`
}

// Sizes are point sizes for the typographic roles a document uses.
type Sizes struct {
	NamePT       float64 `yaml:"name_pt" json:"name_pt"`
	HeadingPT    float64 `yaml:"heading_pt" json:"heading_pt"`
	SubheadingPT float64 `yaml:"subheading_pt" json:"subheading_pt"`
	BodyPT       float64 `yaml:"body_pt" json:"body_pt"`
	SmallPT      float64 `yaml:"small_pt" json:"small_pt"`
}

// Override is a partial theme as read from a user file. Nil fields keep
// the base theme's value.
type Override struct {
	Name   string          `yaml:"name"`
	Colors *ColorsOverride `yaml:"colors"`
	Fonts  *FontsOverride  `yaml:"fonts"`
	Layout *LayoutOverride `yaml:"layout"`
	Sizes  *SizesOverride  `yaml:"sizes"`
}

type ColorsOverride struct {
	Primary   *string `yaml:"primary"`
	Accent    *string `yaml:"accent"`
	TextLight *string `yaml:"text_light"`
	TextMuted *string `yaml:"text_muted"`
	TextBody  *string `yaml:"text_body"`
}

type FontsOverride struct {
	Heading *string `yaml:"heading"`
	Body    *string `yaml:"body"`
}

type LayoutOverride struct {
	Type               *LayoutType `yaml:"layout_type"`
	SidebarWidthCM     *float64    `yaml:"sidebar_width_cm"`
	MainWidthCM        *float64    `yaml:"main_width_cm"`
	PageTopMarginCM    *float64    `yaml:"page_top_margin_cm"`
	PageBottomMarginCM *float64    `yaml:"page_bottom_margin_cm"`
	PageLeftMarginCM   *float64    `yaml:"page_left_margin_cm"`
	PageRightMarginCM  *float64    `yaml:"page_right_margin_cm"`
}

type SizesOverride struct {
	NamePT       *float64 `yaml:"name_pt"`
	HeadingPT    *float64 `yaml:"heading_pt"`
	SubheadingPT *float64 `yaml:"subheading_pt"`
	BodyPT       *float64 `yaml:"body_pt"`
	SmallPT      *float64 `yaml:"small_pt"`
}

// Merge applies the override onto base, one field at a time, and returns
// the result. Record-level replacement is deliberately not supported.
func Merge(base Theme, o *Override) Theme {
	t := base
	if o == nil {
		return t
	}
	if o.Name != "" {
		t.Name = o.Name
	}
	t.Colors = o.Colors.apply(base.Colors)
	t.Fonts = o.Fonts.apply(base.Fonts)
	t.Layout = o.Layout.apply(base.Layout)
	t.Sizes = o.Sizes.apply(base.Sizes)
	return t
}

func (o *ColorsOverride) apply(base Colors) Colors {
	c := base
	if o == nil {
		return c
	}
	if o.Primary != nil {
		c.Primary = normalizeHex(*o.Primary)
	}
	if o.Accent != nil {
		c.Accent = normalizeHex(*o.Accent)
	}
	if o.TextLight != nil {
		c.TextLight = normalizeHex(*o.TextLight)
	}
	if o.TextMuted != nil {
		c.TextMuted = normalizeHex(*o.TextMuted)
	}
	if o.TextBody != nil {
		c.TextBody = normalizeHex(*o.TextBody)
	}
	return c
}

func (o *FontsOverride) apply(base Fonts) Fonts {
	f := base
	if o == nil {
		return f
	}
	if o.Heading != nil {
		f.Heading = *o.Heading
	}
	if o.Body != nil {
		f.Body = *o.Body
	}
	return f
}

func (o *LayoutOverride) apply(base Layout) Layout {
	l := base
	if o == nil {
		return l
	}
	if o.Type != nil {
		l.Type = *o.Type
	}
	if o.SidebarWidthCM != nil {
		l.SidebarWidthCM = *o.SidebarWidthCM
	}
	if o.MainWidthCM != nil {
		l.MainWidthCM = *o.MainWidthCM
	}
	if o.PageTopMarginCM != nil {
		l.PageTopMarginCM = *o.PageTopMarginCM
	}
	if o.PageBottomMarginCM != nil {
		l.PageBottomMarginCM = *o.PageBottomMarginCM
	}
	if o.PageLeftMarginCM != nil {
		l.PageLeftMarginCM = *o.PageLeftMarginCM
	}
	if o.PageRightMarginCM != nil {
		l.PageRightMarginCM = *o.PageRightMarginCM
	}
	return l
}

func (o *SizesOverride) apply(base Sizes) Sizes {
	s := base
	if o == nil {
		return s
	}
	if o.NamePT != nil {
		s.NamePT = *o.NamePT
	}
	if o.HeadingPT != nil {
		s.HeadingPT = *o.HeadingPT
	}
	if o.SubheadingPT != nil {
		s.SubheadingPT = *o.SubheadingPT
	}
	if o.BodyPT != nil {
		s.BodyPT = *o.BodyPT
	}
	if o.SmallPT != nil {
		s.SmallPT = *o.SmallPT
	}
	return s
}

var hexColor = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// normalizeHex tolerates a leading '#' in user files. Stored colors never
// carry one, so renderers can prefix formats as they need.
func normalizeHex(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "#")
}

// Validate checks every field of a resolved theme and reports the first
// offending field together with its value.
func (t *Theme) Validate() error {
	colors := []struct {
		field string
		value string
	}{
		{"colors.primary", t.Colors.Primary},
		{"colors.accent", t.Colors.Accent},
		{"colors.text_light", t.Colors.TextLight},
		{"colors.text_muted", t.Colors.TextMuted},
		{"colors.text_body", t.Colors.TextBody},
	}
	for _, c := range colors {
		if !hexColor.MatchString(c.value) {
			return errors.NewThemeValidationError(c.field, c.value)
		}
	}

	if strings.TrimSpace(t.Fonts.Heading) == "" {
		return errors.NewThemeValidationError("fonts.heading", t.Fonts.Heading)
	}
	if strings.TrimSpace(t.Fonts.Body) == "" {
		return errors.NewThemeValidationError("fonts.body", t.Fonts.Body)
	}

	if !t.Layout.Type.Valid() {
		return errors.NewThemeValidationError("layout.layout_type", string(t.Layout.Type))
	}
	widths := []struct {
		field string
		value float64
	}{
		{"layout.sidebar_width_cm", t.Layout.SidebarWidthCM},
		{"layout.main_width_cm", t.Layout.MainWidthCM},
	}
	for _, w := range widths {
		if w.value <= 0 {
			return errors.NewThemeValidationError(w.field, w.value)
		}
	}
	margins := []struct {
		field string
		value float64
	}{
		{"layout.page_top_margin_cm", t.Layout.PageTopMarginCM},
		{"layout.page_bottom_margin_cm", t.Layout.PageBottomMarginCM},
		{"layout.page_left_margin_cm", t.Layout.PageLeftMarginCM},
		{"layout.page_right_margin_cm", t.Layout.PageRightMarginCM},
	}
	for _, m := range margins {
		if m.value < 0 {
			return errors.NewThemeValidationError(m.field, m.value)
		}
	}

	sizes := []struct {
		field string
		value float64
	}{
		{"sizes.name_pt", t.Sizes.NamePT},
		{"sizes.heading_pt", t.Sizes.HeadingPT},
		{"sizes.subheading_pt", t.Sizes.SubheadingPT},
		{"sizes.body_pt", t.Sizes.BodyPT},
		{"sizes.small_pt", t.Sizes.SmallPT},
	}
	for _, s := range sizes {
		if s.value <= 0 {
			return errors.NewThemeValidationError(s.field, s.value)
		}
	}
	return nil
}

// ContentWidthCM is the horizontal space the sidebar/main split occupies.
func (t *Theme) ContentWidthCM() float64 {
	return t.Layout.SidebarWidthCM + t.Layout.MainWidthCM
}

func (t *Theme) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.Layout.Type)
}
