package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/services"
	"github.com/yoockh/coldreach/internal/utils"
)

const exportFileName = "email_generator_config.json"

type SettingsHandler struct {
	sessions  services.SessionService
	profiles  services.ProfileService
	portfolio services.PortfolioService
}

func NewSettingsHandler(sessions services.SessionService, profiles services.ProfileService, portfolio services.PortfolioService) *SettingsHandler {
	return &SettingsHandler{sessions: sessions, profiles: profiles, portfolio: portfolio}
}

func profileFromForm(c *gin.Context) models.Profile {
	include := strings.ToLower(c.PostForm("include_portfolio"))
	return models.Profile{
		SenderName:      c.PostForm("sender_name"),
		SenderTitle:     c.PostForm("sender_title"),
		SenderEmail:     c.PostForm("sender_email"),
		SenderPhone:     c.PostForm("sender_phone"),
		YearsExperience: c.PostForm("years_experience"),
		Location:        c.PostForm("location"),

		LinkedInURL:  c.PostForm("linkedin_url"),
		GitHubURL:    c.PostForm("github_url"),
		PortfolioURL: c.PostForm("portfolio_url"),
		TwitterURL:   c.PostForm("twitter_url"),

		CompanyName:            c.PostForm("company_name"),
		CompanyType:            c.PostForm("company_type"),
		CompanyWebsite:         c.PostForm("company_website"),
		CompanySize:            c.PostForm("company_size"),
		EstablishedYear:        c.PostForm("established_year"),
		CompanyDescription:     c.PostForm("company_description"),
		CompanyAchievements:    c.PostForm("company_achievements"),
		UniqueValueProposition: c.PostForm("unique_value_proposition"),

		EmailTone:        c.PostForm("email_tone"),
		SignatureStyle:   c.PostForm("signature_style"),
		EmailLength:      c.PostForm("email_length"),
		IncludePortfolio: include == "true" || include == "on" || include == "1",
	}
}

func (h *SettingsHandler) Save(c *gin.Context) {
	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}

	if err := h.profiles.Save(c.Request.Context(), profileFromForm(c)); err != nil {
		f := errorFlash(err, "")
		if utils.IsCode(err, utils.CodeInvalidArgument) {
			f = &models.Flash{Kind: models.FlashError, Message: utils.PublicMessage(err)}
		}
		redirectWithFlash(c, h.sessions, sess, models.PageSettings, f)
		return
	}
	redirectWithFlash(c, h.sessions, sess, models.PageSettings, &models.Flash{
		Kind:    models.FlashSuccess,
		Message: "Settings saved successfully!",
	})
}

func (h *SettingsHandler) Reset(c *gin.Context) {
	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}

	if err := h.profiles.Reset(c.Request.Context()); err != nil {
		redirectWithFlash(c, h.sessions, sess, models.PageSettings, errorFlash(err, ""))
		return
	}
	redirectWithFlash(c, h.sessions, sess, models.PageSettings, &models.Flash{
		Kind:    models.FlashSuccess,
		Message: "Settings reset to defaults.",
	})
}

func (h *SettingsHandler) Export(c *gin.Context) {
	b, err := h.profiles.Export(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFileName))
	c.Data(http.StatusOK, "application/json", b)
}

// UploadPortfolio replaces the portfolio CSV and re-indexes it.
func (h *SettingsHandler) UploadPortfolio(c *gin.Context) {
	const op = "SettingsHandler.UploadPortfolio"

	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}

	fh, err := c.FormFile("portfolio")
	if err != nil {
		redirectWithFlash(c, h.sessions, sess, models.PageSettings, &models.Flash{Kind: models.FlashWarning, Message: "Please choose a CSV file to upload."})
		return
	}
	if !strings.EqualFold(filepath.Ext(fh.Filename), ".csv") {
		redirectWithFlash(c, h.sessions, sess, models.PageSettings, &models.Flash{Kind: models.FlashError, Message: "Portfolio must be a .csv file."})
		return
	}

	f, err := fh.Open()
	if err != nil {
		redirectWithFlash(c, h.sessions, sess, models.PageSettings, errorFlash(utils.E(utils.CodeInternal, op, "failed to open upload", err), ""))
		return
	}
	defer f.Close()

	n, err := h.portfolio.Replace(c.Request.Context(), f)
	if err != nil {
		redirectWithFlash(c, h.sessions, sess, models.PageSettings, errorFlash(err, ""))
		return
	}
	sess.PortfolioLoaded = n > 0
	redirectWithFlash(c, h.sessions, sess, models.PageSettings, &models.Flash{
		Kind:    models.FlashSuccess,
		Message: fmt.Sprintf("Portfolio updated: %d items indexed.", n),
	})
}
