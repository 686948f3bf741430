package types

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Certificate payment states. Transitions are forward-only:
// none -> order_created -> completed. completed is terminal.
const (
	PaymentStatusNone         = "none"
	PaymentStatusOrderCreated = "order_created"
	PaymentStatusCompleted    = "completed"
)

// CertificateProgress is the single mutable record this service owns: one row per
// (user, course), created on enrollment and kept forever as an audit trail.
// There is deliberately no DeletedAt column.
type CertificateProgress struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"user_id"`
	CourseID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_course,unique" json:"course_id"`
	CompletedTopics    datatypes.JSON `gorm:"column:completed_topics;type:jsonb" json:"completed_topics"`
	OverallProgress    int            `gorm:"column:overall_progress;not null;default:0" json:"overall_progress"`
	PaymentStatus      string         `gorm:"column:payment_status;not null;default:'none'" json:"certificate_payment_status"`
	OrderID            *string        `gorm:"column:order_id" json:"certificate_order_id,omitempty"`
	TransactionID      *string        `gorm:"column:transaction_id" json:"certificate_transaction_id,omitempty"`
	PaymentConfirmedAt *time.Time     `gorm:"column:payment_confirmed_at" json:"payment_confirmed_at,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (CertificateProgress) TableName() string { return "certificate_progress" }

// CompletedTopicSet decodes the jsonb column into a set. Unknown or malformed
// entries are dropped rather than failing the read.
func (p *CertificateProgress) CompletedTopicSet() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{})
	if len(p.CompletedTopics) == 0 {
		return set
	}
	var raw []string
	if err := json.Unmarshal(p.CompletedTopics, &raw); err != nil {
		return set
	}
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			set[id] = struct{}{}
		}
	}
	return set
}

// SetCompletedTopics encodes the set back to the jsonb column. Ids are sorted
// so the stored form is stable regardless of completion order.
func (p *CertificateProgress) SetCompletedTopics(set map[uuid.UUID]struct{}) {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)
	raw, _ := json.Marshal(ids)
	p.CompletedTopics = datatypes.JSON(raw)
}
