package domain

import "context"

// Histogram buckets
const (
	BucketDay   = "day"
	BucketMonth = "month"
)

// Export formats
const (
	ExportCSV  = "csv"
	ExportXLSX = "xlsx"
)

// HistogramPoint is one submission bucket
type HistogramPoint struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// Statistics is the admin reporting summary
type Statistics struct {
	Total             int              `json:"total"`
	ByStatus          map[string]int   `json:"by_status"`
	ApprovalRate      float64          `json:"approval_rate"` // percentage, 0 when nothing decided
	AvgReviewHours    float64          `json:"avg_review_hours"`
	Submissions       []HistogramPoint `json:"submissions"`
	DocumentsByStatus map[string]int   `json:"documents_by_status"`
	DocumentsByType   map[string]int   `json:"documents_by_type"`
}

// ExportFile is a rendered export ready to stream
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

type ReportUsecase interface {
	GetStatistics(ctx context.Context, bucket string) (*Statistics, error)
	Export(ctx context.Context, q ApplicationQuery, format string) (*ExportFile, error)
}
