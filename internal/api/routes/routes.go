package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/api/handlers"
	"github.com/yoockh/coldreach/internal/api/middleware"
	"github.com/yoockh/coldreach/web"
)

type Deps struct {
	Health   *handlers.HealthHandler
	Page     *handlers.PageHandler
	Settings *handlers.SettingsHandler
	Draft    *handlers.DraftHandler
	WS       *handlers.WSHandler

	Static http.FileSystem

	SessionSecret string
	SessionTTL    time.Duration
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", d.Health.Ping)
	if d.Static != nil {
		r.StaticFS("/static", d.Static)
	}

	ui := r.Group("/")
	ui.Use(middleware.Session(d.SessionSecret, d.SessionTTL))

	ui.GET("/", d.Page.Show)
	ui.POST("/generate", d.Page.Generate)
	ui.POST("/jobs/regenerate", d.Page.Regenerate)

	ui.POST("/settings", d.Settings.Save)
	ui.POST("/settings/reset", d.Settings.Reset)
	ui.GET("/settings/export", d.Settings.Export)
	ui.POST("/portfolio", d.Settings.UploadPortfolio)

	ui.POST("/drafts", d.Draft.Save)
	ui.GET("/drafts", d.Draft.List)

	// WebSocket
	ui.GET("/ws/generate", d.WS.Generate)
}

// NewEngine builds the gin engine with templates, static assets and routes.
func NewEngine(log *logrus.Logger, d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.SetHTMLTemplate(tmpl)
	r.MaxMultipartMemory = 8 << 20

	if d.Static == nil {
		d.Static = http.FS(web.Static())
	}
	RegisterRoutes(r, d)
	return r, nil
}
