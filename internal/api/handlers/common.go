package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/coldreach/internal/api/middleware"
	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/services"
	"github.com/yoockh/coldreach/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	msg := http.StatusText(status)
	if errors.As(err, &ae) {
		msg = utils.PublicMessage(err)
	}
	c.JSON(status, APIError{Code: utils.CodeOf(err), Message: msg})
}

// loadSession returns the session named by the cookie middleware. On failure
// it writes a JSON error and returns false.
func loadSession(c *gin.Context, sessions services.SessionService) (*models.Session, bool) {
	sess, err := sessions.Load(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return sess, true
}

// redirectWithFlash stores a banner for the next render and sends the browser to page.
func redirectWithFlash(c *gin.Context, sessions services.SessionService, sess *models.Session, page string, f *models.Flash) {
	if f != nil {
		sess.Flash = f
	}
	if models.ValidPage(page) {
		sess.Page = page
	}
	if err := sessions.Save(c.Request.Context(), sess); err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/?page="+sess.Page)
}

func errorFlash(err error, detail string) *models.Flash {
	return &models.Flash{
		Kind:    models.FlashError,
		Message: "An Error Occurred: " + utils.PublicMessage(err),
		Detail:  detail,
	}
}
