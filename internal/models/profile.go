package models

import "strings"

const (
	ToneProfessional = "professional"
	ToneCasual       = "casual"
	ToneFormal       = "formal"
	ToneFriendly     = "friendly"

	SignatureStandard        = "standard"
	SignatureDetailed        = "detailed"
	SignatureMinimal         = "minimal"
	SignatureWithSocialLinks = "with_social_links"

	LengthShort    = "short"
	LengthMedium   = "medium"
	LengthDetailed = "detailed"
)

// Options offered by the settings form.
var (
	ToneOptions        = []string{ToneProfessional, ToneCasual, ToneFormal, ToneFriendly}
	SignatureOptions   = []string{SignatureStandard, SignatureDetailed, SignatureMinimal, SignatureWithSocialLinks}
	LengthOptions      = []string{LengthShort, LengthMedium, LengthDetailed}
	CompanySizeOptions = []string{"", "1-10", "11-50", "51-200", "201-500", "500+"}
)

// Profile is the sender configuration persisted in user_config.json.
type Profile struct {
	SenderName      string `json:"sender_name"`
	SenderTitle     string `json:"sender_title"`
	SenderEmail     string `json:"sender_email,omitempty"`
	SenderPhone     string `json:"sender_phone,omitempty"`
	YearsExperience string `json:"years_experience,omitempty"`
	Location        string `json:"location,omitempty"`

	LinkedInURL  string `json:"linkedin_url,omitempty"`
	GitHubURL    string `json:"github_url,omitempty"`
	PortfolioURL string `json:"portfolio_url,omitempty"`
	TwitterURL   string `json:"twitter_url,omitempty"`

	CompanyName            string `json:"company_name"`
	CompanyType            string `json:"company_type"`
	CompanyWebsite         string `json:"company_website,omitempty"`
	CompanySize            string `json:"company_size,omitempty"`
	EstablishedYear        string `json:"established_year,omitempty"`
	CompanyDescription     string `json:"company_description"`
	CompanyAchievements    string `json:"company_achievements"`
	UniqueValueProposition string `json:"unique_value_proposition,omitempty"`

	EmailTone        string `json:"email_tone"`
	SignatureStyle   string `json:"signature_style"`
	EmailLength      string `json:"email_length,omitempty"`
	IncludePortfolio bool   `json:"include_portfolio"`
}

// WithPreferenceDefaults returns a profile whose style preferences are preset,
// used as the decode target so missing keys keep their defaults.
func WithPreferenceDefaults() Profile {
	return Profile{
		EmailTone:        ToneProfessional,
		SignatureStyle:   SignatureStandard,
		EmailLength:      LengthMedium,
		IncludePortfolio: true,
	}
}

// MissingRequired lists the labels of required fields that are blank.
func (p Profile) MissingRequired() []string {
	var missing []string
	if strings.TrimSpace(p.SenderName) == "" {
		missing = append(missing, "Name")
	}
	if strings.TrimSpace(p.SenderTitle) == "" {
		missing = append(missing, "Title")
	}
	if strings.TrimSpace(p.CompanyName) == "" {
		missing = append(missing, "Company Name")
	}
	return missing
}

// SocialLinks returns the non-empty social profile links in display order.
func (p Profile) SocialLinks() []NamedLink {
	var out []NamedLink
	for _, l := range []NamedLink{
		{Name: "LinkedIn", URL: p.LinkedInURL},
		{Name: "GitHub", URL: p.GitHubURL},
		{Name: "Portfolio", URL: p.PortfolioURL},
		{Name: "Twitter", URL: p.TwitterURL},
	} {
		if strings.TrimSpace(l.URL) != "" {
			out = append(out, l)
		}
	}
	return out
}

type NamedLink struct {
	Name string
	URL  string
}
