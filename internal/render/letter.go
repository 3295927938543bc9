package render

import (
	"strings"
	"time"

	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/theme"
	"resumake/internal/types"
)

const letterMarginCM = 2.5

// BuildLetter renders a generated cover letter as a word-processor file
// styled with the same theme as the CV it accompanies. The sender block
// comes from the document's contact details.
func BuildLetter(doc *cv.Document, letter types.CoverLetter, th *theme.Theme, opts Options) ([]byte, error) {
	if doc == nil || th == nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "letter render needs a document and a resolved theme", nil)
	}

	m := &docxModel{
		pageTopCM:    letterMarginCM,
		pageBottomCM: letterMarginCM,
		pageLeftCM:   letterMarginCM,
		pageRightCM:  letterMarginCM,
		font:         th.Fonts.Body,
		sizePT:       11,
		color:        th.Colors.TextBody,
	}

	// sender block
	m.addPara(paraSpec{
		runs:    []runSpec{{text: doc.Name, bold: true, sizePT: th.Sizes.HeadingPT, color: th.Colors.Primary, font: th.Fonts.Heading}},
		afterPT: 2,
	})
	var senderLines []string
	for _, v := range []string{doc.Contact.Address, doc.Contact.Phone, doc.Contact.Email} {
		if v != "" {
			senderLines = append(senderLines, v)
		}
	}
	if len(senderLines) > 0 {
		m.addPara(paraSpec{
			runs:    []runSpec{{text: strings.Join(senderLines, "\n"), sizePT: 10, color: th.Colors.TextMuted, font: th.Fonts.Heading}},
			afterPT: 12,
		})
	}

	m.addPara(paraSpec{
		runs:    []runSpec{{text: letterDate(opts.language()), sizePT: 11, color: th.Colors.TextBody, font: th.Fonts.Body}},
		afterPT: 14,
	})

	recipient := letter.Recipient
	if recipient == "" {
		recipient = "Hiring Manager"
	}
	m.addPara(paraSpec{
		runs:    []runSpec{{text: "Dear " + recipient + ",", bold: true, sizePT: 11, color: th.Colors.TextBody, font: th.Fonts.Body}},
		afterPT: 8,
	})

	if letter.Subject != "" {
		m.addPara(paraSpec{
			runs:    []runSpec{{text: "Re: " + letter.Subject, bold: true, sizePT: 11, color: th.Colors.Primary, font: th.Fonts.Heading}},
			afterPT: 10,
		})
	}

	for _, block := range []string{letter.Opening, letter.Body, letter.Closing} {
		for _, para := range splitParagraphs(block) {
			m.addPara(paraSpec{
				runs:    []runSpec{{text: para, sizePT: 11, color: th.Colors.TextBody, font: th.Fonts.Body}},
				afterPT: 10,
			})
		}
	}

	m.addPara(paraSpec{
		runs:     []runSpec{{text: "Sincerely,", sizePT: 11, color: th.Colors.TextBody, font: th.Fonts.Body}},
		beforePT: 6,
		afterPT:  12,
	})
	m.addPara(paraSpec{
		runs: []runSpec{{text: doc.Name, bold: true, sizePT: 11, color: th.Colors.Primary, font: th.Fonts.Heading}},
	})

	data, err := writeDocx(m)
	if err != nil {
		return nil, errors.NewRenderError(errors.ErrCodeRenderFailed, "could not assemble letter package", err)
	}
	return data, nil
}

// splitParagraphs breaks generated prose on blank lines, trimming each
// paragraph and dropping empties.
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// letterDate formats today's date for the letter head. Only English gets
// the written-out month; other languages use the unambiguous ISO form.
func letterDate(lang string) string {
	now := time.Now()
	if lang == "en" {
		return now.Format("January 2, 2006")
	}
	return now.Format("2006-01-02")
}
