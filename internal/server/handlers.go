package server

import (
	"errors"
	"net/http"
	"time"

	"admitcast/internal/college"
	"admitcast/internal/predict"
	"admitcast/internal/profile"
	"admitcast/internal/wizard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the wizard API.
type Handler struct {
	store     *Store
	catalog   *college.Catalog
	predictor *predict.Predictor
	log       *zap.SugaredLogger
}

type errorResponse struct {
	Error string `json:"error"`
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

func (h *Handler) session(c *gin.Context) (*wizard.Session, bool) {
	sess, ok := h.store.Get(c.Param("id"))
	if !ok {
		abort(c, http.StatusNotFound, errors.New("session not found"))
		return nil, false
	}
	return sess, true
}

// HealthCheck reports liveness.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListColleges returns the catalog in display order.
func (h *Handler) ListColleges(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.All())
}

type predictRequest struct {
	CollegeID string          `json:"college_id" binding:"required"`
	Profile   profile.Profile `json:"profile"`
}

// Predict scores a profile without creating a session.
func (h *Handler) Predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	col, err := h.catalog.Get(req.CollegeID)
	if err != nil {
		abort(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, h.predictor.Predict(col, req.Profile))
}

// CreateSession starts a wizard on the landing screen.
func (h *Handler) CreateSession(c *gin.Context) {
	sess := h.store.Create()
	h.log.Debugw("session created", "session", sess.ID(), "live", h.store.Len())
	c.JSON(http.StatusCreated, gin.H{"id": sess.ID(), "state": sess.State()})
}

// GetSession returns the session view.
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Snapshot())
}

// DeleteSession drops a session.
func (h *Handler) DeleteSession(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		abort(c, http.StatusNotFound, errors.New("session not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

// FireEvent applies a navigation event. Events that do not apply to the
// current screen leave it unchanged.
func (h *Handler) FireEvent(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	ev, err := wizard.ParseEvent(c.Param("event"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if ev == wizard.EventSelectCollege {
		abort(c, http.StatusBadRequest, errors.New("use POST /select with a college_id"))
		return
	}
	from := sess.State()
	to := sess.Fire(ev)
	c.JSON(http.StatusOK, gin.H{"state": to, "step": to.Index(), "changed": from != to})
}

// SetAcademics replaces the academics fields with the submitted form.
func (h *Handler) SetAcademics(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var form profile.AcademicsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	sess.SetAcademics(form.Parse())
	c.JSON(http.StatusOK, sess.Profile())
}

// SetScores replaces the test score fields with the submitted form.
func (h *Handler) SetScores(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var form profile.ScoresForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	sess.SetScores(form.Parse())
	c.JSON(http.StatusOK, sess.Profile())
}

// SetExtracurriculars replaces the activity list.
func (h *Handler) SetExtracurriculars(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var form profile.ExtracurricularsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	sess.SetExtracurriculars(form.Parse())
	c.JSON(http.StatusOK, sess.Profile())
}

// SetDemographics merges the demographics form.
func (h *Handler) SetDemographics(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var d profile.Demographics
	if err := c.ShouldBindJSON(&d); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	sess.SetDemographics(d)
	c.JSON(http.StatusOK, sess.Profile())
}

type selectRequest struct {
	CollegeID string `json:"college_id" binding:"required"`
}

// SelectCollege scores the profile and moves to results.
func (h *Handler) SelectCollege(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	res, err := sess.SelectCollege(req.CollegeID)
	switch {
	case errors.Is(err, college.ErrUnknownCollege):
		abort(c, http.StatusNotFound, err)
		return
	case errors.Is(err, wizard.ErrNotSelecting):
		abort(c, http.StatusConflict, err)
		return
	case err != nil:
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateProfile applies a results-view edit and scores again.
func (h *Handler) UpdateProfile(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var u profile.Update
	if err := c.ShouldBindJSON(&u); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	res, err := sess.UpdateProfile(u)
	if errors.Is(err, wizard.ErrNoCollegeSelected) {
		c.JSON(http.StatusOK, gin.H{"profile": sess.Profile()})
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": sess.Profile(), "result": res})
}

type askRequest struct {
	Message string `json:"message" binding:"required"`
}

// Ask posts a chat question. The reply arrives later in the transcript.
func (h *Handler) Ask(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	sess.Ask(req.Message)
	c.JSON(http.StatusAccepted, gin.H{"messages": len(sess.Transcript())})
}

// Transcript returns the chat log.
func (h *Handler) Transcript(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Transcript())
}

func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
