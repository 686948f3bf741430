package services

import (
	"errors"
	"net/http"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/apierr"
)

// Domain error taxonomy. Everything except ErrGatewayUnavailable is a
// non-retryable caller error; ErrGatewayUnavailable is transient and always
// leaves the progress record untouched.
var (
	ErrCourseNotFound     = apierr.New(http.StatusNotFound, "course_not_found", errors.New("course not found"))
	ErrNotEnrolled        = apierr.New(http.StatusNotFound, "not_enrolled", errors.New("not enrolled in this course"))
	ErrInvalidTopic       = apierr.New(http.StatusBadRequest, "invalid_topic", errors.New("topic does not belong to this course"))
	ErrCourseNotCompleted = apierr.New(http.StatusConflict, "course_not_completed", errors.New("course is not fully completed"))
	ErrAlreadyUnlocked    = apierr.New(http.StatusConflict, "already_unlocked", errors.New("certificate payment already completed"))
	ErrNoPendingOrder     = apierr.New(http.StatusConflict, "no_pending_order", errors.New("no certificate order to confirm"))
	ErrInvalidSignature   = apierr.New(http.StatusBadRequest, "invalid_signature", errors.New("payment signature verification failed"))
	ErrGatewayUnavailable = apierr.New(http.StatusServiceUnavailable, "gateway_unavailable", errors.New("payment gateway unavailable"))
	ErrCertificateLocked  = apierr.New(http.StatusLocked, "certificate_locked", errors.New("certificate is locked"))

	ErrInvalidCredentials = apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid email or password"))
	ErrEmailTaken         = apierr.New(http.StatusConflict, "email_taken", errors.New("email already registered"))
)
