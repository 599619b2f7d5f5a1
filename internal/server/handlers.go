package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"persona-quiz/internal/answers"
	apperrors "persona-quiz/internal/common/errors"
	"persona-quiz/internal/common/logger"
	"persona-quiz/internal/common/metrics"
	"persona-quiz/internal/common/validation"
	"persona-quiz/internal/models"
	"persona-quiz/internal/motto"
	"persona-quiz/internal/persona"
	"persona-quiz/internal/submissions"
	"persona-quiz/pkg/catalog"
)

// Handlers serves the quiz API.
type Handlers struct {
	catalog     *catalog.Catalog
	answers     answers.Store
	submissions *submissions.Service
	mottos      *motto.Service
	responder   *apperrors.Responder
	logger      logger.Logger
}

func NewHandlers(deps Deps, responder *apperrors.Responder, log logger.Logger) *Handlers {
	return &Handlers{
		catalog:     deps.Catalog,
		answers:     deps.Answers,
		submissions: deps.Submissions,
		mottos:      deps.Mottos,
		responder:   responder,
		logger:      log.WithFields(map[string]interface{}{"component": "handlers"}),
	}
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ==========================
// Catalog & personas
// ==========================

func (h *Handlers) Questions(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

func (h *Handlers) Personas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"personas": persona.Profiles()})
}

func (h *Handlers) Persona(c *gin.Context) {
	slug := c.Param("slug")
	profile, ok := persona.ProfileBySlug(slug)
	if !ok {
		h.responder.Respond(c, apperrors.NewNotFoundError("persona", slug))
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ==========================
// Scoring
// ==========================

func (h *Handlers) Score(c *gin.Context) {
	var req models.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	c.JSON(http.StatusOK, scoreAnswers(req.Answers))
}

// Result scores the answers stored for the caller's session.
func (h *Handlers) Result(c *gin.Context) {
	current, err := h.answers.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.answerStoreError(c, "get", err)
		return
	}
	result := scoreAnswers(current)
	result.Answers = current

	profile, _ := persona.ProfileBySlug(result.Slug)
	c.JSON(http.StatusOK, gin.H{
		"persona":  result.Persona,
		"slug":     result.Slug,
		"scores":   result.Scores,
		"answered": result.Answered,
		"answers":  result.Answers,
		"profile":  profile,
	})
}

func scoreAnswers(in map[string]string) models.ScoreResult {
	scores := persona.ComputeScores(in)
	winner := persona.PickWinner(scores)
	metrics.PersonasComputed.WithLabelValues(winner.String()).Inc()

	out := make(map[string]int, len(scores))
	for _, p := range persona.TieBreakOrder() {
		out[p.String()] = scores[p]
	}
	return models.ScoreResult{
		Persona:  winner.String(),
		Slug:     persona.Slug(winner),
		Scores:   out,
		Answered: len(in),
	}
}

// ==========================
// Session answers
// ==========================

type saveAnswerRequest struct {
	Value string `json:"value"`
}

type mergeAnswersRequest struct {
	Answers map[string]string `json:"answers"`
}

func (h *Handlers) GetAnswers(c *gin.Context) {
	current, err := h.answers.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.answerStoreError(c, "get", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": current})
}

func (h *Handlers) SaveAnswer(c *gin.Context) {
	var req saveAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	if err := h.answers.Save(c.Request.Context(), sessionID(c), c.Param("qid"), req.Value); err != nil {
		h.answerStoreError(c, "save", err)
		return
	}
	h.GetAnswers(c)
}

func (h *Handlers) MergeAnswers(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	result, err := validation.AnswersSchema.ValidateJSON(raw)
	if err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	if !result.Valid {
		h.responder.Respond(c, apperrors.NewValidationError(result.Summary()))
		return
	}

	var req mergeAnswersRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	if err := h.answers.SaveAll(c.Request.Context(), sessionID(c), req.Answers); err != nil {
		h.answerStoreError(c, "save", err)
		return
	}
	h.GetAnswers(c)
}

func (h *Handlers) RemoveAnswer(c *gin.Context) {
	if err := h.answers.Remove(c.Request.Context(), sessionID(c), c.Param("qid")); err != nil {
		h.answerStoreError(c, "remove", err)
		return
	}
	h.GetAnswers(c)
}

func (h *Handlers) ClearAnswers(c *gin.Context) {
	if err := h.answers.Clear(c.Request.Context(), sessionID(c)); err != nil {
		h.answerStoreError(c, "clear", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": map[string]string{}})
}

func (h *Handlers) answerStoreError(c *gin.Context, op string, err error) {
	if answers.IsValidationError(err) {
		h.responder.Respond(c, apperrors.NewValidationError(err.Error()))
		return
	}
	h.responder.Respond(c, apperrors.NewAnswerStoreFailedError(op, err))
}

// ==========================
// Mottos
// ==========================

func (h *Handlers) Motto(c *gin.Context) {
	var req models.MottoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	c.JSON(http.StatusOK, mottoResponse(h.mottos.Persona(c.Request.Context(), req.Persona)))
}

// Location builds the location-card motto. Without answers in the body the
// session's stored answers are used.
func (h *Handlers) Location(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	result, err := validation.LocationSchema.ValidateJSON(raw)
	if err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	if !result.Valid {
		h.responder.Respond(c, apperrors.NewValidationError(result.Summary()))
		return
	}

	var req models.LocationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	if len(req.Answers) == 0 {
		if stored, err := h.answers.Get(c.Request.Context(), sessionID(c)); err == nil {
			req.Answers = stored
		} else {
			h.logger.Warn("Falling back to empty answers for location motto", map[string]interface{}{"error": err.Error()})
		}
	}
	c.JSON(http.StatusOK, mottoResponse(h.mottos.Location(c.Request.Context(), req.Avatar, req.Answers)))
}

func mottoResponse(r *motto.Result) models.MottoResponse {
	return models.MottoResponse{Motto: r.Motto, Source: r.Source, Fallback: r.Fallback}
}

// ==========================
// Submissions
// ==========================

func (h *Handlers) Submit(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		h.responder.Respond(c, apperrors.NewInvalidRequestBodyError(err))
		return
	}
	sub, err := h.submissions.Submit(c.Request.Context(), raw)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SubmitResponse{OK: true, ID: sub.ID, Persona: sub.Persona})
}

func (h *Handlers) ListSubmissions(c *gin.Context) {
	limit := h.submissions.DefaultLimit()
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			limit = n
		}
	}
	items, err := h.submissions.List(c.Request.Context(), limit)
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handlers) CountSubmissions(c *gin.Context) {
	n, err := h.submissions.Count(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count submissions", map[string]interface{}{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"count": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// ==========================
// Admin
// ==========================

func (h *Handlers) AdminLoginHint(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"login": "/api/admin/login",
		"next":  c.Query("next"),
	})
}

func (h *Handlers) Dashboard(c *gin.Context) {
	dash, err := h.submissions.Dashboard(c.Request.Context())
	if err != nil {
		h.responder.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
