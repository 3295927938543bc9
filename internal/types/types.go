// Package types defines the input and output shapes of the AI operations.
package types

// TranslateInput represents the input for translating a CV.
type TranslateInput struct {
	CVYAML string `json:"cvYaml"`
	Lang   string `json:"lang"` // target language code, e.g. "de"
}

// TailorInput represents the input for tailoring a CV to a job description.
type TailorInput struct {
	CVYAML         string `json:"cvYaml"`
	JobDescription string `json:"jobDescription"`
}

// CoverLetterInput represents the input for generating a cover letter.
type CoverLetterInput struct {
	CVYAML         string `json:"cvYaml"`
	JobDescription string `json:"jobDescription"`
	Company        string `json:"company,omitempty"` // optional addressee override
}

// CoverLetter represents a generated cover letter, paragraph by paragraph.
type CoverLetter struct {
	Recipient string `json:"recipient" yaml:"recipient"` // company name or "Hiring Manager"
	Subject   string `json:"subject" yaml:"subject"`
	Opening   string `json:"opening" yaml:"opening"`
	Body      string `json:"body" yaml:"body"`
	Closing   string `json:"closing" yaml:"closing"`
}

// Suggestion represents one proposed rewrite of CV content.
type Suggestion struct {
	Section   string `json:"section"`   // CV section the text came from
	Original  string `json:"original"`  // text as written
	Suggested string `json:"suggested"` // improved text
	Reason    string `json:"reason"`    // why this is better
}

// SuggestReport represents the output of a content improvement review.
type SuggestReport struct {
	Suggestions []Suggestion `json:"suggestions"`
	General     []string     `json:"general"` // advice not tied to one passage
}

// ATSInput represents the input for scoring a CV against a job description.
type ATSInput struct {
	CVYAML         string `json:"cvYaml"`
	JobDescription string `json:"jobDescription"`
}

// ATSSuggestion represents a keyword worth adding and where to put it.
type ATSSuggestion struct {
	Keyword    string `json:"keyword"`
	WhereToAdd string `json:"where_to_add"` // section name
	Phrasing   string `json:"phrasing"`     // suggested phrasing
}

// ATSReport represents keyword matching results against a job description.
type ATSReport struct {
	Score           int             `json:"score"` // 0-100 score
	MatchedKeywords []string        `json:"matched_keywords"`
	MissingKeywords []string        `json:"missing_keywords"`
	Suggestions     []ATSSuggestion `json:"suggestions"`
	Summary         string          `json:"summary"` // brief summary of match quality
}

// BioContact represents the contact block of a short bio.
type BioContact struct {
	Email   string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone   string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
}

// BioRole represents a current role in a short bio.
type BioRole struct {
	Title  string `json:"title" yaml:"title"`
	Org    string `json:"org" yaml:"org"`
	Period string `json:"period" yaml:"period"` // "start — end"
}

// BioLink represents a labeled URL in a short bio.
type BioLink struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// Bio represents a condensed professional bio distilled from a CV.
type Bio struct {
	Name             string     `json:"name" yaml:"name"`
	Title            string     `json:"title,omitempty" yaml:"title,omitempty"`
	Photo            string     `json:"photo,omitempty" yaml:"photo,omitempty"`
	Contact          BioContact `json:"contact,omitempty" yaml:"contact,omitempty"`
	BioSummary       string     `json:"bio_summary" yaml:"bio_summary"`             // 3-4 sentences, third person
	CareerHighlights []string   `json:"career_highlights" yaml:"career_highlights"` // strongest quantifiable achievements
	CurrentRoles     []BioRole  `json:"current_roles" yaml:"current_roles"`
	Education        []string   `json:"education,omitempty" yaml:"education,omitempty"` // "degree, institution"
	SkillsSummary    string     `json:"skills_summary,omitempty" yaml:"skills_summary,omitempty"`
	Links            []BioLink  `json:"links,omitempty" yaml:"links,omitempty"`
}

// TokenUsage tracks LLM token consumption for one operation.
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}
