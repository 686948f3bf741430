package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/requestdata"
	"github.com/ajaypanchal761/createbharat-sub003/internal/services"
)

type ProgressHandler struct {
	log               *logger.Logger
	enrollmentService services.EnrollmentService
	progressService   services.ProgressService
}

func NewProgressHandler(
	log *logger.Logger,
	enrollmentService services.EnrollmentService,
	progressService services.ProgressService,
) *ProgressHandler {
	return &ProgressHandler{
		log:               log.With("handler", "ProgressHandler"),
		enrollmentService: enrollmentService,
		progressService:   progressService,
	}
}

func (h *ProgressHandler) Enroll(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	row, err := h.enrollmentService.Enroll(c.Request.Context(), rd.UserID, courseID)
	if err != nil {
		h.log.Error("Enroll failed", "error", err, "user_id", rd.UserID, "course_id", courseID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}

type completeTopicRequest struct {
	TopicID uuid.UUID `json:"topic_id" binding:"required"`
}

func (h *ProgressHandler) CompleteTopic(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	var req completeTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.progressService.CompleteTopic(c.Request.Context(), rd.UserID, courseID, req.TopicID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}
	row, err := h.progressService.GetProgress(c.Request.Context(), rd.UserID, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}
