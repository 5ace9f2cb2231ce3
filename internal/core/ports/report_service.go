package ports

import "context"

// SectionProgressInput is one section entry of a submitted report.
type SectionProgressInput struct {
	SectionID string
	Progress  float64
}

// ReportInput is the DTO passed from the transport layer to ReportService.
type ReportInput struct {
	ProjectID  string
	Period     string
	ReportedBy string
	Entries    []SectionProgressInput
	Notes      string
}

// ReportService processes submitted progress reports.
type ReportService interface {
	Process(ctx context.Context, in ReportInput) error
}
