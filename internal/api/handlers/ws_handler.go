package handlers

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/coldreach/internal/models"
	"github.com/yoockh/coldreach/internal/services"
	"github.com/yoockh/coldreach/internal/utils"
)

// WSHandler streams pipeline progress for one URL over a websocket.
type WSHandler struct {
	sessions  services.SessionService
	generator services.GeneratorService
	log       *logrus.Logger
	upgrader  websocket.Upgrader
}

func NewWSHandler(sessions services.SessionService, generator services.GeneratorService, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		sessions:  sessions,
		generator: generator,
		log:       log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

type wsEvent struct {
	Type    string            `json:"type"` // status|job|done|error
	Stage   string            `json:"stage,omitempty"`
	Note    string            `json:"note,omitempty"`
	Job     *services.JobView `json:"job,omitempty"`
	Jobs    int               `json:"jobs,omitempty"`
	Code    utils.Code        `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeJSON(ev wsEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

// Generate handles GET /ws/generate?url=. It runs the same pipeline as the
// form post, then closes.
func (h *WSHandler) Generate(c *gin.Context) {
	const op = "WSHandler.Generate"

	sess, ok := loadSession(c, h.sessions)
	if !ok {
		return
	}
	url := c.Query("url")
	if url == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing url", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx := c.Request.Context()

	fail := func(err error) {
		h.log.WithFields(logrus.Fields{"op": op, "session_id": sess.ID, "error": err}).Error("pipeline failed")
		sess.Flash = errorFlash(err, msgCheckURL)
		_ = h.sessions.Save(ctx, sess)

		_ = wc.writeJSON(wsEvent{Type: "error", Code: utils.CodeOf(err), Message: utils.PublicMessage(err)})
	}

	err = h.generator.Submit(ctx, sess, url, func(stage, note string) {
		_ = wc.writeJSON(wsEvent{Type: "status", Stage: stage, Note: note})
	})
	if err != nil {
		fail(err)
		return
	}

	_ = wc.writeJSON(wsEvent{Type: "status", Stage: services.StageComposing})
	views, err := h.generator.Compose(ctx, sess, func(v services.JobView) {
		_ = wc.writeJSON(wsEvent{Type: "job", Job: &v})
	})
	if err != nil {
		fail(err)
		return
	}

	sess.Page = models.PageHome
	if err := h.sessions.Save(ctx, sess); err != nil {
		fail(err)
		return
	}
	_ = wc.writeJSON(wsEvent{Type: "done", Jobs: len(views)})
	_ = wc.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
}
