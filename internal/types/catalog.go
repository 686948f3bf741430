package types

import "github.com/google/uuid"

// CourseStructure is the immutable catalog view this service consumes: ordered
// modules with ordered topic ids, plus the certificate pricing needed by the
// certificate gate.
type CourseStructure struct {
	CourseID         uuid.UUID         `json:"course_id"`
	Title            string            `json:"title"`
	CertificatePrice int64             `json:"certificate_price"`
	Currency         string            `json:"currency"`
	Modules          []ModuleStructure `json:"modules"`
}

type ModuleStructure struct {
	ModuleID uuid.UUID   `json:"module_id"`
	Index    int         `json:"index"`
	Title    string      `json:"title"`
	TopicIDs []uuid.UUID `json:"topic_ids"`
}

func (cs *CourseStructure) TopicCount() int {
	n := 0
	for _, m := range cs.Modules {
		n += len(m.TopicIDs)
	}
	return n
}

func (cs *CourseStructure) TopicIDSet() map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, cs.TopicCount())
	for _, m := range cs.Modules {
		for _, id := range m.TopicIDs {
			set[id] = struct{}{}
		}
	}
	return set
}

func (cs *CourseStructure) HasTopic(id uuid.UUID) bool {
	for _, m := range cs.Modules {
		for _, t := range m.TopicIDs {
			if t == id {
				return true
			}
		}
	}
	return false
}
