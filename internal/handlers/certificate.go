package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/requestdata"
	"github.com/ajaypanchal761/createbharat-sub003/internal/services"
)

type CertificateHandler struct {
	log                *logger.Logger
	certificateService services.CertificateService
	rendererService    services.RendererService
}

func NewCertificateHandler(
	log *logger.Logger,
	certificateService services.CertificateService,
	rendererService services.RendererService,
) *CertificateHandler {
	return &CertificateHandler{
		log:                log.With("handler", "CertificateHandler"),
		certificateService: certificateService,
		rendererService:    rendererService,
	}
}

func (h *CertificateHandler) CreateOrder(c *gin.Context) {
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
	order, err := h.certificateService.CreateOrder(c.Request.Context(), rd.UserID, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"order": order})
}

type confirmPaymentRequest struct {
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature"`
}

func (h *CertificateHandler) ConfirmPayment(c *gin.Context) {
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
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.certificateService.ConfirmPayment(c.Request.Context(), rd.UserID, courseID, req.PaymentID, req.Signature)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"progress": row})
}

func (h *CertificateHandler) GetCertificate(c *gin.Context) {
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
	artifact, err := h.rendererService.Render(c.Request.Context(), rd.UserID, courseID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"certificate": artifact})
}
