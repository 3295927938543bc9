package ai

// Prompts contains the prompt template for each AI operation. Every template
// is a fmt.Sprintf format string; the field comments name the arguments in
// order. Operations that expect structured output spell the wanted shape out
// in the prompt because the same templates serve every provider.
type Prompts struct {
	Translate   string // target language (used twice), CV YAML
	Tailor      string // job description, CV YAML
	CoverLetter string // job description, CV YAML
	Suggest     string // CV YAML
	ATS         string // job description, CV YAML
	Bio         string // CV YAML
	LinkedIn    string // profile text
}

// DefaultPrompts provides the builtin prompt templates.
var DefaultPrompts = Prompts{
	Translate: `Translate the following CV from English to %[1]s. Return ONLY the translated YAML — no explanation, no code fences. Keep the YAML structure and keys exactly the same (keys stay in English). Translate all values that are natural language text (descriptions, bullets, titles, skills, etc.). Do NOT translate: names, organization names, technology/tool names, URLs, email, phone, dates, publication titles, degree program names that are commonly kept in English. Use professional %[1]s suitable for a senior-level CV. Here is the YAML:

%[2]s`,

	Tailor: `You are a professional CV consultant. Given a CV in YAML format and a project/job description, produce a tailored version of the CV that highlights the most relevant experience and skills.

Rules:
- Return ONLY the tailored YAML — no explanation, no code fences.
- Keep the exact same YAML structure and keys.
- Do NOT invent, fabricate, or add any new content that isn't in the original CV.
- Rewrite the profile summary to emphasize relevance to the description.
- Reorder the experience entries so the most relevant ones come first.
- For each experience entry, you may reorder bullets to foreground relevant ones.
- You may slightly rephrase bullets to better highlight relevance, but do not change facts.
- Keep all experience entries — do not remove any.
- Reorder skills to foreground the most relevant ones.
- Keep education, certifications, publications, volunteering, and references unchanged.

PROJECT/JOB DESCRIPTION:
%s

CV YAML:
%s`,

	CoverLetter: `You are a professional career consultant. Given a CV in YAML format and a job description, write a compelling cover letter.

Return ONLY valid YAML with this exact structure — no explanation, no code fences:

recipient: <company name or 'Hiring Manager'>
subject: <subject line for the letter>
opening: <opening paragraph — why you're writing and the role you're applying for>
body: <1-2 paragraphs connecting your experience to the role requirements>
closing: <closing paragraph — call to action, availability, enthusiasm>

Rules:
- Write in first person, professional but personable tone.
- Reference specific achievements from the CV that match the job requirements.
- Do NOT invent experience or skills not in the CV.
- Keep it concise — no more than one page when formatted.
- Do not include the sender's address or date — those will be added from CV data.

JOB DESCRIPTION:
%s

CV YAML:
%s`,

	Suggest: `Analyze the following CV and suggest improvements. Focus on:
1. Quantifying achievements (add numbers, percentages, metrics)
2. Using stronger action verbs (led, architected, delivered vs worked on, helped)
3. Removing vague language
4. ATS readability improvements
5. Any missing or weak sections

Return ONLY valid JSON with this structure:
{"suggestions": [{"section": "experience", "original": "original text", "suggested": "improved text", "reason": "why this is better"}], "general": ["general advice 1", "general advice 2"]}

CV:
%s`,

	ATS: `Compare the following CV with the job description. Analyze keyword matching for Applicant Tracking Systems (ATS). Return ONLY valid JSON with:
{"score": 0-100, "matched_keywords": ["keyword1", "keyword2"], "missing_keywords": ["keyword3", "keyword4"], "suggestions": [{"keyword": "keyword", "where_to_add": "section name", "phrasing": "suggested phrasing"}], "summary": "brief summary of match quality"}

Job Description:
%s

CV:
%s`,

	Bio: `You are a professional CV consultant. Given a full CV in YAML, produce a condensed one-pager bio version.

Return ONLY valid YAML with this exact structure — no explanation, no code fences:

name: <full name>
title: <professional title>
photo: <photo path from original>
contact:
  email: <email>
  phone: <phone>
  address: <city, country>
bio_summary: <3-4 sentences in third person summarizing the person's career, expertise, and value proposition>
career_highlights:
  - <highlight 1>
  - <highlight 2>
  - <highlight 3>
  - <highlight 4>
  - <highlight 5>
current_roles:
  - title: <title>
    org: <org>
    period: <start — end>
  ...(2-3 most recent roles)
education:
  - <degree, institution>
  ...
skills_summary: <comma-separated list of 10-15 key skills>
links:
  - label: <label>
    url: <url>
  ...

Rules:
- Do NOT invent content. Only select and condense from the original CV.
- Career highlights should be the most impressive, quantifiable achievements.
- Current roles = 2-3 most recent experience entries.
- Skills summary = most important skills across all categories.
- Bio summary should be written in third person, professional tone.

CV YAML:
%s`,

	LinkedIn: `Convert the following LinkedIn profile text into a structured YAML CV. Return ONLY valid YAML with these top-level keys (omit any that don't apply): name, title, contact (with address, email, phone, nationality), links (list of label+url), skills (with leadership, technical, languages lists), profile (summary text), experience (list with title, org, start, end, description, bullets), education (list with degree, institution, start, end), certifications (list with name, org, start, end), volunteering (list with title, org, start, end, description). Use professional English. Do NOT add any explanation.

LinkedIn profile text:

%s`,
}

// resolvePrompt selects the prompt for one operation: a configured override
// wins, otherwise the builtin template applies.
func resolvePrompt(override, builtin string) string {
	if override != "" {
		return override
	}
	return builtin
}

// Per-operation response budgets, in tokens. Whole-document rewrites get the
// large budget; a cover letter fits comfortably in the small one.
const (
	maxTokensSmall  = 2048
	maxTokensMedium = 4096
	maxTokensLarge  = 8192
)

// languageNames maps common language codes to the English name used in the
// translation prompt. Unknown codes pass through unchanged; models handle
// bare codes reasonably well.
var languageNames = map[string]string{
	"en": "English",
	"de": "German",
	"fr": "French",
	"es": "Spanish",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"pl": "Polish",
	"sv": "Swedish",
	"da": "Danish",
	"no": "Norwegian",
	"fi": "Finnish",
	"tr": "Turkish",
	"ja": "Japanese",
	"zh": "Chinese",
	"ko": "Korean",
	"ar": "Arabic",
	"ru": "Russian",
	"uk": "Ukrainian",
	"cs": "Czech",
}

// LanguageName returns the English name for a language code, or the code
// itself when unknown.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
