package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/services"
)

type DraftHandler struct {
	sessions services.SessionService
	drafts   services.DraftService
}

func NewDraftHandler(sessions services.SessionService, drafts services.DraftService) *DraftHandler {
	return &DraftHandler{sessions: sessions, drafts: drafts}
}

// Save stores the edited email text as a timestamped draft file.
func (h *DraftHandler) Save(c *gin.Context) {
	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}

	d, err := h.drafts.Save(c.Request.Context(), sess, c.PostForm("key"), c.PostForm("body"))
	if err != nil {
		redirectWithFlash(c, h.sessions, sess, models.PageHome, errorFlash(err, ""))
		return
	}
	redirectWithFlash(c, h.sessions, sess, models.PageHome, &models.Flash{
		Kind:    models.FlashSuccess,
		Message: "Draft saved as " + d.FileName,
	})
}

func (h *DraftHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	out, err := h.drafts.Recent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": out})
}
