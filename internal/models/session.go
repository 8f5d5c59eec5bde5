package models

import "time"

const (
	PageHome     = "home"
	PageSettings = "settings"
)

// Flash kinds map onto banner styles.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Session is the per-browser UI state. It is kept in the cache, never in a database.
type Session struct {
	ID      string       `json:"id"`
	Page    string       `json:"page"` // home|settings
	LastURL string       `json:"last_url,omitempty"`
	Jobs    []JobPosting `json:"jobs,omitempty"`
	Notice  string       `json:"notice,omitempty"`
	Flash   *Flash       `json:"flash,omitempty"`

	PortfolioLoaded bool `json:"portfolio_loaded"`
	Generated       int  `json:"generated"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidPage reports whether p names one of the two pages.
func ValidPage(p string) bool {
	return p == PageHome || p == PageSettings
}
