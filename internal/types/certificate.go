package types

import "github.com/google/uuid"

// OrderHandle carries everything the payment UI needs to open checkout
// against the gateway.
type OrderHandle struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// CertificateArtifact is the rendered certificate. PNG is emitted as base64 in
// JSON responses. Rendering is a pure function of its inputs: the same record
// always yields the same bytes.
type CertificateArtifact struct {
	CertificateID uuid.UUID `json:"certificate_id"`
	LearnerName   string    `json:"learner_name"`
	CourseTitle   string    `json:"course_title"`
	IssuedOn      string    `json:"issued_on"`
	PNG           []byte    `json:"image_base64"`
}
