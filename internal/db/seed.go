package db

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

type seedTopic struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type seedModule struct {
	ID     uuid.UUID   `json:"id"`
	Title  string      `json:"title"`
	Topics []seedTopic `json:"topics"`
}

type seedCourse struct {
	ID               uuid.UUID    `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	CertificatePrice int64        `json:"certificate_price"`
	Currency         string       `json:"currency"`
	MinDurationDays  int          `json:"min_duration_days"`
	Modules          []seedModule `json:"modules"`
}

// SeedCatalog loads courses from a JSON file and upserts them by id. Ids live
// in the seed file so re-running is idempotent and never duplicates rows.
func SeedCatalog(db *gorm.DB, log *logger.Logger, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file %s: %w", path, err)
	}
	var courses []seedCourse
	if err := json.Unmarshal(raw, &courses); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range courses {
			currency := sc.Currency
			if currency == "" {
				currency = "INR"
			}
			course := types.Course{
				ID:               sc.ID,
				Title:            sc.Title,
				Description:      sc.Description,
				CertificatePrice: sc.CertificatePrice,
				Currency:         currency,
				MinDurationDays:  sc.MinDurationDays,
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&course).Error; err != nil {
				return fmt.Errorf("seed course %s: %w", sc.ID, err)
			}
			for mi, sm := range sc.Modules {
				module := types.CourseModule{
					ID:       sm.ID,
					CourseID: sc.ID,
					Index:    mi,
					Title:    sm.Title,
				}
				if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&module).Error; err != nil {
					return fmt.Errorf("seed module %s: %w", sm.ID, err)
				}
				for ti, st := range sm.Topics {
					topic := types.Topic{
						ID:       st.ID,
						ModuleID: sm.ID,
						CourseID: sc.ID,
						Index:    ti,
						Title:    st.Title,
					}
					if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&topic).Error; err != nil {
						return fmt.Errorf("seed topic %s: %w", st.ID, err)
					}
				}
			}
			log.Info("Seeded course", "course_id", sc.ID, "title", sc.Title, "modules", len(sc.Modules))
		}
		return nil
	})
}
