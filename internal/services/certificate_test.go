package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/razorpay"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

func TestCreateOrderRequiresEnrollment(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.certificate.CreateOrder(context.Background(), f.userID, f.courseID)
	if !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("err = %v, want ErrNotEnrolled", err)
	}
}

func TestCreateOrderRequiresFullCompletion(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if _, err := f.progress.CompleteTopic(ctx, f.userID, f.courseID, f.topicIDs[0]); err != nil {
		t.Fatalf("CompleteTopic: %v", err)
	}

	_, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if !errors.Is(err, ErrCourseNotCompleted) {
		t.Fatalf("err = %v, want ErrCourseNotCompleted", err)
	}
	if f.gateway.orders != 0 {
		t.Errorf("gateway was called for an ineligible user")
	}
}

func TestCreateOrderHappyPath(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	f.completeAll(t)

	order, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.OrderID == "" {
		t.Fatal("empty order id")
	}
	if order.Amount != 49900 || order.Currency != "INR" {
		t.Errorf("order = %d %s, want 49900 INR", order.Amount, order.Currency)
	}
	if order.KeyID != "rzp_test_fake" {
		t.Errorf("KeyID = %q", order.KeyID)
	}

	row, err := f.progress.GetProgress(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if row.PaymentStatus != types.PaymentStatusOrderCreated {
		t.Errorf("PaymentStatus = %q, want %q", row.PaymentStatus, types.PaymentStatusOrderCreated)
	}
	if row.OrderID == nil || *row.OrderID != order.OrderID {
		t.Errorf("stored order id does not match handle")
	}

	// An order alone does not open the gate.
	if ok, _ := f.certificate.CanRender(ctx, f.userID, f.courseID); ok {
		t.Error("CanRender = true before payment confirmation")
	}
}

func TestCreateOrderRetryReplacesPendingOrder(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	f.completeAll(t)

	first, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("first CreateOrder: %v", err)
	}
	second, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("second CreateOrder: %v", err)
	}
	if second.OrderID == first.OrderID {
		t.Fatalf("retry did not produce a fresh order")
	}

	row, _ := f.progress.GetProgress(ctx, f.userID, f.courseID)
	if row.OrderID == nil || *row.OrderID != second.OrderID {
		t.Errorf("record should track the latest order")
	}
}

func TestCreateOrderGatewayFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	f.completeAll(t)
	f.gateway.fail = true

	_, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	assertCode(t, err, "gateway_unavailable", 503)

	row, _ := f.progress.GetProgress(ctx, f.userID, f.courseID)
	if row.PaymentStatus != types.PaymentStatusNone {
		t.Errorf("PaymentStatus = %q, want %q after gateway failure", row.PaymentStatus, types.PaymentStatusNone)
	}
	if row.OrderID != nil {
		t.Errorf("order id stored despite gateway failure")
	}
}

func TestConfirmPaymentRequiresPendingOrder(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	f.completeAll(t)

	_, err := f.certificate.ConfirmPayment(ctx, f.userID, f.courseID, "pay_123", "sig")
	if !errors.Is(err, ErrNoPendingOrder) {
		t.Fatalf("err = %v, want ErrNoPendingOrder", err)
	}
}

func TestConfirmPaymentVerifiesSignature(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	f.completeAll(t)
	order, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	_, err = f.certificate.ConfirmPayment(ctx, f.userID, f.courseID, "pay_123", "forged")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}

	row, _ := f.progress.GetProgress(ctx, f.userID, f.courseID)
	if row.PaymentStatus != types.PaymentStatusOrderCreated {
		t.Errorf("rejected confirmation mutated payment status to %q", row.PaymentStatus)
	}

	sig := razorpay.SignPayment("test_secret", order.OrderID, "pay_123")
	confirmed, err := f.certificate.ConfirmPayment(ctx, f.userID, f.courseID, "pay_123", sig)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if confirmed.PaymentStatus != types.PaymentStatusCompleted {
		t.Errorf("PaymentStatus = %q, want %q", confirmed.PaymentStatus, types.PaymentStatusCompleted)
	}
	if confirmed.TransactionID == nil || *confirmed.TransactionID != "pay_123" {
		t.Errorf("transaction id not recorded")
	}
	if confirmed.PaymentConfirmedAt == nil {
		t.Errorf("confirmation timestamp not recorded")
	}
	if ok, _ := f.certificate.CanRender(ctx, f.userID, f.courseID); !ok {
		t.Error("CanRender = false after confirmed payment at 100%")
	}
}

func TestConfirmPaymentFirstConfirmationWins(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	f.completeAll(t)
	order, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	sig := razorpay.SignPayment("test_secret", order.OrderID, "pay_first")
	first, err := f.certificate.ConfirmPayment(ctx, f.userID, f.courseID, "pay_first", sig)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	// Duplicate confirmation with a different payment id must not overwrite.
	sig2 := razorpay.SignPayment("test_secret", order.OrderID, "pay_second")
	second, err := f.certificate.ConfirmPayment(ctx, f.userID, f.courseID, "pay_second", sig2)
	if err != nil {
		t.Fatalf("duplicate ConfirmPayment: %v", err)
	}
	if second.TransactionID == nil || *second.TransactionID != "pay_first" {
		t.Errorf("duplicate confirmation overwrote transaction id")
	}
	if !second.PaymentConfirmedAt.Equal(*first.PaymentConfirmedAt) {
		t.Errorf("duplicate confirmation moved the confirmation timestamp")
	}
}

func TestCreateOrderAfterCompletionIsRejected(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()
	if _, err := f.enrollment.Enroll(ctx, f.userID, f.courseID); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	f.completeAll(t)
	order, err := f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	sig := razorpay.SignPayment("test_secret", order.OrderID, "pay_1")
	if _, err := f.certificate.ConfirmPayment(ctx, f.userID, f.courseID, "pay_1", sig); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	_, err = f.certificate.CreateOrder(ctx, f.userID, f.courseID)
	if !errors.Is(err, ErrAlreadyUnlocked) {
		t.Fatalf("err = %v, want ErrAlreadyUnlocked", err)
	}
}

func TestConfirmPaymentRejectsEmptyPaymentID(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.certificate.ConfirmPayment(context.Background(), f.userID, f.courseID, "", "sig")
	if !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestUnlockedPredicate(t *testing.T) {
	cases := []struct {
		name string
		row  *types.CertificateProgress
		want bool
	}{
		{"nil row", nil, false},
		{"incomplete", &types.CertificateProgress{OverallProgress: 60, PaymentStatus: types.PaymentStatusCompleted}, false},
		{"unpaid", &types.CertificateProgress{OverallProgress: 100, PaymentStatus: types.PaymentStatusOrderCreated}, false},
		{"paid and complete", &types.CertificateProgress{OverallProgress: 100, PaymentStatus: types.PaymentStatusCompleted}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Unlocked(tc.row); got != tc.want {
				t.Errorf("Unlocked() = %v, want %v", got, tc.want)
			}
		})
	}
}
