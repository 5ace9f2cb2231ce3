package domain

import "time"

// SectionProgress is one section's new completion value inside a report.
type SectionProgress struct {
	SectionID string  `json:"section_id" bson:"section_id"`
	Progress  float64 `json:"progress" bson:"progress"`
}

// ProgressReport is a periodic field report for one project. One report per
// (project, period) is accepted; duplicates are dropped at ingestion.
type ProgressReport struct {
	ID         string            `json:"id" bson:"_id,omitempty"`
	ProjectID  string            `json:"project_id" bson:"project_id"`
	Period     string            `json:"period" bson:"period"` // YYYY-MM
	ReportedBy string            `json:"reported_by" bson:"reported_by"`
	Entries    []SectionProgress `json:"entries" bson:"entries"`
	Notes      string            `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time         `json:"created_at" bson:"created_at"`
}
