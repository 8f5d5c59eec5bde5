package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/services"
	"github.com/yoockh/coldreach/internal/utils"
)

const (
	msgCheckURL    = "Please check the URL and try again."
	msgEnterURL    = "Please enter a URL to generate emails."
	recentDraftMax = 5
)

type PageHandler struct {
	sessions  services.SessionService
	generator services.GeneratorService
	profiles  services.ProfileService
	drafts    services.DraftService
	portfolio services.PortfolioService
	log       *logrus.Logger
}

func NewPageHandler(
	sessions services.SessionService,
	generator services.GeneratorService,
	profiles services.ProfileService,
	drafts services.DraftService,
	portfolio services.PortfolioService,
	log *logrus.Logger,
) *PageHandler {
	return &PageHandler{
		sessions:  sessions,
		generator: generator,
		profiles:  profiles,
		drafts:    drafts,
		portfolio: portfolio,
		log:       log,
	}
}

type pageView struct {
	Page    string
	Session *models.Session
	Flash   *models.Flash

	Profile models.Profile
	Saved   bool

	Jobs           []services.JobView
	Drafts         []models.Draft
	PortfolioCount int64

	Tones        []string
	Signatures   []string
	Lengths      []string
	CompanySizes []string
}

// Show renders the active page. The page lives in the session and is mirrored
// in ?page=; a request without it is redirected so the URL stays in sync.
func (h *PageHandler) Show(c *gin.Context) {
	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	page, present := c.GetQuery("page")
	if !present {
		if !models.ValidPage(sess.Page) {
			sess.Page = models.PageHome
		}
		c.Redirect(http.StatusFound, "/?page="+sess.Page)
		return
	}
	if !models.ValidPage(page) {
		page = models.PageHome
	}
	sess.Page = page

	profile, saved, err := h.profiles.Current(ctx)
	if err != nil {
		writeError(c, err)
		return
	}

	view := pageView{
		Page:         page,
		Session:      sess,
		Flash:        sess.Flash,
		Profile:      profile,
		Saved:        saved,
		Tones:        models.ToneOptions,
		Signatures:   models.SignatureOptions,
		Lengths:      models.LengthOptions,
		CompanySizes: models.CompanySizeOptions,
	}
	sess.Flash = nil

	if page == models.PageHome {
		jobs, err := h.generator.Compose(ctx, sess, nil)
		view.Jobs = jobs
		if err != nil {
			h.log.WithFields(logrus.Fields{"session_id": sess.ID, "error": err}).Error("compose failed")
			view.Flash = errorFlash(err, msgCheckURL)
		}
	}

	view.PortfolioCount = h.portfolio.Count(ctx)
	if drafts, err := h.drafts.Recent(ctx, recentDraftMax); err == nil {
		view.Drafts = drafts
	} else {
		h.log.WithError(err).Warn("recent drafts unavailable")
	}

	if err := h.sessions.Save(ctx, sess); err != nil {
		writeError(c, err)
		return
	}
	c.HTML(http.StatusOK, "page.html", view)
}

// Generate runs fetch, clean and extract for the submitted URL.
func (h *PageHandler) Generate(c *gin.Context) {
	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}

	url := strings.TrimSpace(c.PostForm("url"))
	if url == "" {
		redirectWithFlash(c, h.sessions, sess, models.PageHome, &models.Flash{Kind: models.FlashWarning, Message: msgEnterURL})
		return
	}

	if err := h.generator.Submit(c.Request.Context(), sess, url, nil); err != nil {
		h.log.WithFields(logrus.Fields{"session_id": sess.ID, "url": url, "error": err}).Error("generate failed")
		redirectWithFlash(c, h.sessions, sess, models.PageHome, errorFlash(err, msgCheckURL))
		return
	}
	redirectWithFlash(c, h.sessions, sess, models.PageHome, nil)
}

// Regenerate drops one cached email so the next render composes it again.
func (h *PageHandler) Regenerate(c *gin.Context) {
	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}

	if err := h.generator.Regenerate(c.Request.Context(), sess, c.PostForm("key")); err != nil {
		if utils.IsCode(err, utils.CodeNotFound) || utils.IsCode(err, utils.CodeInvalidArgument) {
			redirectWithFlash(c, h.sessions, sess, models.PageHome, &models.Flash{Kind: models.FlashWarning, Message: utils.PublicMessage(err)})
			return
		}
		redirectWithFlash(c, h.sessions, sess, models.PageHome, errorFlash(err, ""))
		return
	}
	redirectWithFlash(c, h.sessions, sess, models.PageHome, nil)
}
