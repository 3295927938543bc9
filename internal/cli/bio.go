package cli

import (
	stderrors "errors"
	"strings"

	"resumake/internal/ai"
	"resumake/internal/common"
	"resumake/internal/cv"
	"resumake/internal/errors"
	"resumake/internal/render"
	"resumake/internal/types"

	"github.com/spf13/cobra"
)

var bioConfig common.CommandConfig

var bioCmd = &cobra.Command{
	Use:   "bio",
	Short: "Condense the CV into a one-page bio",
	Long: `Bio distills the CV into a short professional bio: a summary in
the third person, career highlights, current roles, education and a
trimmed skills line. The configured LLM provider writes the summary;
without one, a deterministic local condensation is produced instead.`,
	RunE: runBio,
}

func init() {
	bioCmd.Flags().StringVarP(&bioConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	bioCmd.Flags().StringVar(&bioConfig.OutputFormat, "format", "text", "Output format: json, text, or markdown")
}

func runBio(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	doc, err := cv.Load(cfg.App.Source)
	if err != nil {
		return err
	}

	var bio types.Bio
	provider, err := ai.New(cmd.Context(), cfg, logger)
	if err == nil {
		defer func() {
			if err := provider.Close(); err != nil {
				logger.Debug("Provider close failed", "error", err.Error())
			}
		}()

		cvYAML, err := cv.ToYAML(doc)
		if err != nil {
			return err
		}

		var usage *types.TokenUsage
		bio, usage, err = provider.Bio(cmd.Context(), string(cvYAML))
		if err != nil {
			return err
		}
		logTokenUsage(logger, usage)
	} else {
		var appErr *errors.AppError
		if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeMissingAPIKey {
			return err
		}
		logger.Info("No LLM provider configured, producing local bio")
		bio = localBio(doc)
	}

	outputHandler := common.NewOutputHandler(logger)
	return outputHandler.HandleOutput(bio, bioConfig)
}

// localBio condenses the CV deterministically: most recent roles, their
// strongest bullets, trimmed skills and profile.
func localBio(doc *cv.Document) types.Bio {
	bio := types.Bio{
		Name:  doc.Name,
		Title: doc.Title,
		Photo: doc.Photo,
		Contact: types.BioContact{
			Email:   doc.Contact.Email,
			Phone:   doc.Contact.Phone,
			Address: doc.Contact.Address,
		},
		BioSummary: trimSentences(doc.Profile, 4),
	}

	// Most recent roles lead; the source order is newest first.
	for i, exp := range doc.Experience {
		if i >= 3 {
			break
		}
		bio.CurrentRoles = append(bio.CurrentRoles, types.BioRole{
			Title:  exp.Title,
			Org:    exp.Org,
			Period: render.FormatRange(exp.Start, exp.End),
		})
		if len(exp.Bullets) > 0 {
			bio.CareerHighlights = append(bio.CareerHighlights, exp.Bullets[0])
		}
	}

	for _, edu := range doc.Education {
		bio.Education = append(bio.Education, joinNonEmpty(", ", edu.Degree, edu.Institution))
	}

	skills := doc.Skills.Technical
	if len(skills) > 8 {
		skills = skills[:8]
	}
	if len(skills) > 0 {
		bio.SkillsSummary = strings.Join(skills, ", ")
	}

	for _, link := range doc.Links {
		bio.Links = append(bio.Links, types.BioLink{Label: link.Label, URL: link.URL})
	}
	return bio
}

// trimSentences keeps at most n sentences of a paragraph.
func trimSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	count := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			if count == n && i+1 < len(text) {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
