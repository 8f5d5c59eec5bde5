package chain

import (
	"strings"

	"github.com/tmc/langchaingo/prompts"

	"github.com/yoockh/coldreach/internal/models"
)

const extractTemplate = `### SCRAPED TEXT FROM WEBSITE:
{{.page_data}}
### INSTRUCTION:
The scraped text is from the career's page of a website.
Your job is to extract the job postings and return them in JSON format containing the following keys:
` + "`role`, `experience`, `skills`, `description`, `company` (if mentioned), `location` (if mentioned)." + `
Only return the valid JSON.
### VALID JSON (NO PREAMBLE):
`

const emailTemplate = `### JOB DESCRIPTION:
{{.job_description}}

### YOUR IDENTITY AND COMPANY INFO:
- Name: {{.sender_name}}
- Title: {{.sender_title}}
- Company: {{.company_name}}
- Company Type: {{.company_type}}
- Company Description: {{.company_description}}
- Company Achievements: {{.company_achievements}}
{{- range .contact_lines}}
- {{.}}
{{- end}}

### INSTRUCTION:
You are {{.sender_name}}, {{.sender_title}} at {{.company_name}}.
Write a cold email to the client regarding the job mentioned above describing the capability of {{.company_name}}
in fulfilling their needs.

Key points to include:
1. A personalized opening that references specific aspects of their job posting
2. How {{.company_name}}'s expertise aligns with their requirements
3. Brief mention of relevant experience and achievements
4. If relevant portfolio links are provided, incorporate them naturally: {{.link_list}}
5. A clear call to action

Tone: {{.tone_instruction}}
Signature: {{.signature_instruction}}
Length: {{.length_instruction}}

Remember you are {{.sender_name}} from {{.company_name}}. Make the email personal, engaging, and focused on the client's needs.
Do not provide a preamble, start directly with the email content.

### EMAIL (NO PREAMBLE):
`

var (
	extractPrompt = prompts.NewPromptTemplate(extractTemplate, []string{"page_data"})
	emailPrompt   = prompts.NewPromptTemplate(emailTemplate, []string{
		"job_description", "link_list",
		"sender_name", "sender_title", "company_name", "company_type",
		"company_description", "company_achievements", "contact_lines",
		"tone_instruction", "signature_instruction", "length_instruction",
	})
)

var toneInstructions = map[string]string{
	models.ToneProfessional: "Write in a professional yet approachable tone.",
	models.ToneCasual:       "Write in a friendly, casual tone while maintaining professionalism.",
	models.ToneFormal:       "Write in a formal, corporate tone.",
	models.ToneFriendly:     "Write in a warm and personable tone, like reaching out to a future collaborator.",
}

var signatureInstructions = map[string]string{
	models.SignatureStandard:        "End with a standard professional signature.",
	models.SignatureDetailed:        "Include full contact details in the signature.",
	models.SignatureMinimal:         "Use a minimal signature with just name and title.",
	models.SignatureWithSocialLinks: "End with a signature that lists the social profile links given above.",
}

var lengthInstructions = map[string]string{
	models.LengthShort:    "Keep it brief, under 120 words.",
	models.LengthMedium:   "Aim for roughly 150 to 250 words.",
	models.LengthDetailed: "A thorough email of up to 400 words is fine.",
}

// ToneInstruction maps a tone to its directive, defaulting to professional.
func ToneInstruction(tone string) string {
	if s, ok := toneInstructions[strings.ToLower(tone)]; ok {
		return s
	}
	return toneInstructions[models.ToneProfessional]
}

// SignatureInstruction maps a signature style to its directive, defaulting to standard.
func SignatureInstruction(style string) string {
	if s, ok := signatureInstructions[strings.ToLower(style)]; ok {
		return s
	}
	return signatureInstructions[models.SignatureStandard]
}

func LengthInstruction(length string) string {
	if s, ok := lengthInstructions[strings.ToLower(length)]; ok {
		return s
	}
	return lengthInstructions[models.LengthMedium]
}

// BuildEmailPrompt renders the compose prompt for one job.
func BuildEmailPrompt(job models.JobPosting, links []string, p models.Profile) (string, error) {
	return emailPrompt.Format(map[string]any{
		"job_description":       job.String(),
		"link_list":             linkList(links),
		"sender_name":           p.SenderName,
		"sender_title":          p.SenderTitle,
		"company_name":          p.CompanyName,
		"company_type":          p.CompanyType,
		"company_description":   p.CompanyDescription,
		"company_achievements":  p.CompanyAchievements,
		"contact_lines":         contactLines(p),
		"tone_instruction":      ToneInstruction(p.EmailTone),
		"signature_instruction": SignatureInstruction(p.SignatureStyle),
		"length_instruction":    LengthInstruction(p.EmailLength),
	})
}

func buildExtractPrompt(text string) (string, error) {
	return extractPrompt.Format(map[string]any{"page_data": text})
}

func linkList(links []string) string {
	if len(links) == 0 {
		return "(none)"
	}
	return "[" + strings.Join(links, ", ") + "]"
}

func contactLines(p models.Profile) []string {
	var out []string
	add := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, label+": "+v)
		}
	}
	add("Email", p.SenderEmail)
	add("Phone", p.SenderPhone)
	add("Years of Experience", p.YearsExperience)
	add("Location", p.Location)
	for _, l := range p.SocialLinks() {
		add(l.Name, l.URL)
	}
	add("Company Website", p.CompanyWebsite)
	add("Company Size", p.CompanySize)
	add("Established", p.EstablishedYear)
	add("Unique Value Proposition", p.UniqueValueProposition)
	return out
}
