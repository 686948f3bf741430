package types

import (
	"time"

	"github.com/google/uuid"
)

// Course is catalog data. This service only reads it; authoring happens in the
// admin tooling that owns the catalog tables.
type Course struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title            string    `gorm:"column:title;not null" json:"title"`
	Description      string    `gorm:"column:description" json:"description"`
	CertificatePrice int64     `gorm:"column:certificate_price;not null;default:0" json:"certificate_price"` // smallest currency unit
	Currency         string    `gorm:"column:currency;not null;default:'INR'" json:"currency"`
	MinDurationDays  int       `gorm:"column:min_duration_days;not null;default:0" json:"min_duration_days"` // display-only eligibility hint
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

type CourseModule struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Index     int       `gorm:"column:index;not null" json:"index"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CourseModule) TableName() string { return "course_module" }

type Topic struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID  uuid.UUID `gorm:"type:uuid;not null;index" json:"module_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"` // denormalized for membership checks
	Index     int       `gorm:"column:index;not null" json:"index"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Topic) TableName() string { return "topic" }
