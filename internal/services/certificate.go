package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/apierr"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/razorpay"
	"github.com/ajaypanchal761/createbharat-sub003/internal/repos"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

// CertificateService is the gate in front of certificate rendering. The
// payment state on the progress record only ever moves forward:
// none -> order_created -> completed.
type CertificateService interface {
	// CreateOrder opens a gateway order for the course's certificate price.
	// Requires 100% progress. Calling it again while an order is pending
	// abandons the previous order and stores a fresh one; that is the retry
	// path for users who closed the checkout dialog.
	CreateOrder(ctx context.Context, userID, courseID uuid.UUID) (*types.OrderHandle, error)
	// ConfirmPayment moves the record to completed after verifying the
	// client-relayed payment against the gateway's signature scheme. Once
	// completed, further confirmations are no-ops: first confirmation wins.
	ConfirmPayment(ctx context.Context, userID, courseID uuid.UUID, paymentID, signature string) (*types.CertificateProgress, error)
	CanRender(ctx context.Context, userID, courseID uuid.UUID) (bool, error)
}

type certificateService struct {
	db           *gorm.DB
	log          *logger.Logger
	catalog      CatalogService
	progressRepo repos.CertificateProgressRepo
	gateway      razorpay.Client
	locks        *KeyedMutex
}

func NewCertificateService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog CatalogService,
	progressRepo repos.CertificateProgressRepo,
	gateway razorpay.Client,
	locks *KeyedMutex,
) CertificateService {
	return &certificateService{
		db:           db,
		log:          baseLog.With("service", "CertificateService"),
		catalog:      catalog,
		progressRepo: progressRepo,
		gateway:      gateway,
		locks:        locks,
	}
}

func (s *certificateService) CreateOrder(ctx context.Context, userID, courseID uuid.UUID) (*types.OrderHandle, error) {
	structure, err := s.catalog.GetCourseStructure(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// Cheap precondition read before touching the gateway, so ineligible
	// callers never leave abandoned orders behind.
	row, err := s.progressRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, err
	}
	if err := orderPreconditions(row); err != nil {
		return nil, err
	}

	order, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   structure.CertificatePrice,
		Currency: structure.Currency,
		Receipt:  fmt.Sprintf("cert_%s", row.ID),
		Notes: map[string]string{
			"user_id":   userID.String(),
			"course_id": courseID.String(),
			"purpose":   "course_certificate",
		},
	})
	if err != nil {
		// No local state was touched; the caller may retry.
		s.log.Warn("Gateway order creation failed", "user_id", userID, "course_id", courseID, "error", err)
		return nil, apierr.Wrap(ErrGatewayUnavailable, err)
	}

	unlock := s.locks.Lock(progressKey(userID, courseID))
	defer unlock()

	err = runInTx(ctx, s.db, func(tx *gorm.DB) error {
		locked, err := s.progressRepo.GetByUserAndCourseForUpdate(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		// Re-check under the row lock; the record may have changed between
		// the precondition read and the gateway round-trip.
		if err := orderPreconditions(locked); err != nil {
			return err
		}
		locked.OrderID = &order.ID
		locked.PaymentStatus = types.PaymentStatusOrderCreated
		return s.progressRepo.Save(ctx, tx, locked)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Certificate order created", "user_id", userID, "course_id", courseID, "order_id", order.ID)
	return &types.OrderHandle{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

func orderPreconditions(row *types.CertificateProgress) error {
	if row == nil {
		return ErrNotEnrolled
	}
	if row.PaymentStatus == types.PaymentStatusCompleted {
		return ErrAlreadyUnlocked
	}
	if row.OverallProgress != 100 {
		return ErrCourseNotCompleted
	}
	return nil
}

func (s *certificateService) ConfirmPayment(ctx context.Context, userID, courseID uuid.UUID, paymentID, signature string) (*types.CertificateProgress, error) {
	if paymentID == "" {
		return nil, ErrInvalidSignature
	}

	unlock := s.locks.Lock(progressKey(userID, courseID))
	defer unlock()

	var result *types.CertificateProgress
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		row, err := s.progressRepo.GetByUserAndCourseForUpdate(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrNotEnrolled
		}

		switch row.PaymentStatus {
		case types.PaymentStatusCompleted:
			// Duplicate webhook or client retry. Keep the first transaction.
			result = row
			return nil
		case types.PaymentStatusNone:
			return ErrNoPendingOrder
		}

		orderID := ""
		if row.OrderID != nil {
			orderID = *row.OrderID
		}
		if err := s.gateway.VerifyPaymentSignature(orderID, paymentID, signature); err != nil {
			s.log.Warn("Payment signature rejected", "user_id", userID, "course_id", courseID, "order_id", orderID, "error", err)
			return ErrInvalidSignature
		}

		now := time.Now().UTC()
		row.PaymentStatus = types.PaymentStatusCompleted
		row.TransactionID = &paymentID
		row.PaymentConfirmedAt = &now
		if err := s.progressRepo.Save(ctx, tx, row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Certificate payment confirmed", "user_id", userID, "course_id", courseID)
	return result, nil
}

func (s *certificateService) CanRender(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	row, err := s.progressRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return false, err
	}
	return Unlocked(row), nil
}

// Unlocked is the claim predicate: full completion and confirmed payment.
func Unlocked(row *types.CertificateProgress) bool {
	return row != nil &&
		row.OverallProgress == 100 &&
		row.PaymentStatus == types.PaymentStatusCompleted
}
