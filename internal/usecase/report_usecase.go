package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"employee-onboarding-backend/internal/domain"
	"employee-onboarding-backend/pkg/apperror"
)

// ExportColumns is the fixed column order of application exports
var ExportColumns = []string{"Name", "Email", "Post", "Status", "Submitted Date"}

type reportUsecase struct {
	appRepo domain.ApplicationRepository
	docRepo domain.DocumentRepository
	now     func() time.Time
}

func NewReportUsecase(appRepo domain.ApplicationRepository, docRepo domain.DocumentRepository) domain.ReportUsecase {
	return &reportUsecase{appRepo: appRepo, docRepo: docRepo, now: time.Now}
}

func (u *reportUsecase) GetStatistics(ctx context.Context, bucket string) (*domain.Statistics, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	switch bucket {
	case "":
		bucket = domain.BucketDay
	case domain.BucketDay, domain.BucketMonth:
	default:
		return nil, apperror.BadRequest("bucket must be 'day' or 'month'")
	}

	apps, err := u.appRepo.ListAll(ctx)
	if err != nil {
		return nil, repoError(err, "Applications")
	}
	docs, err := u.docRepo.ListAll(ctx)
	if err != nil {
		return nil, repoError(err, "Documents")
	}
	return ComputeStatistics(apps, docs, bucket), nil
}

// Export renders the filtered, unpaginated application list
func (u *reportUsecase) Export(ctx context.Context, q domain.ApplicationQuery, format string) (*domain.ExportFile, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = domain.ExportCSV
	}
	if format != domain.ExportCSV && format != domain.ExportXLSX {
		return nil, apperror.BadRequest("Unsupported export format: " + format)
	}

	apps, err := u.appRepo.ListAll(ctx)
	if err != nil {
		return nil, repoError(err, "Applications")
	}
	apps = FilterApplications(apps, q)
	stamp := u.now().Format("20060102_150405")

	var buf bytes.Buffer
	if format == domain.ExportXLSX {
		if err := WriteXLSX(&buf, apps); err != nil {
			return nil, apperror.Internal(err)
		}
		return &domain.ExportFile{
			FileName:    fmt.Sprintf("applications_%s.xlsx", stamp),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        buf.Bytes(),
		}, nil
	}

	if err := WriteCSV(&buf, apps); err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.ExportFile{
		FileName:    fmt.Sprintf("applications_%s.csv", stamp),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}

func exportRow(app *domain.Application) []string {
	submitted := ""
	if app.SubmittedAt != nil {
		submitted = app.SubmittedAt.Format("2006-01-02")
	}
	return []string{app.DisplayName(), app.DisplayEmail(), app.PostApplied, string(app.Status), submitted}
}

// WriteCSV writes a header plus one row per application. Fields containing
// commas, quotes or newlines are quoted.
func WriteCSV(w io.Writer, apps []domain.Application) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range apps {
		if err := cw.Write(exportRow(&apps[i])); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders the same columns as WriteCSV into a single styled sheet
func WriteXLSX(w io.Writer, apps []domain.Application) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applications"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range ExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
	}

	// Dark blue header with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(ExportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx := range apps {
		for colIdx, value := range exportRow(&apps[rowIdx]) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range ExportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 24)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// ComputeStatistics summarises applications and documents in a single pass
// over each slice. bucket selects day or month granularity for the
// submissions histogram.
func ComputeStatistics(apps []domain.Application, docs []domain.Document, bucket string) *domain.Statistics {
	stats := &domain.Statistics{
		Total:             len(apps),
		ByStatus:          make(map[string]int),
		Submissions:       []domain.HistogramPoint{},
		DocumentsByStatus: map[string]int{},
		DocumentsByType:   map[string]int{},
	}
	for _, s := range domain.ValidApplicationStatuses() {
		stats.ByStatus[string(s)] = 0
	}
	for _, s := range []domain.DocumentStatus{domain.DocumentStatusPending, domain.DocumentStatusVerified, domain.DocumentStatusRejected} {
		stats.DocumentsByStatus[string(s)] = 0
	}

	layout := "2006-01-02"
	if bucket == domain.BucketMonth {
		layout = "2006-01"
	}

	histogram := make(map[string]int)
	var approved, decided int
	var reviewHours float64
	var reviewed int

	for i := range apps {
		app := &apps[i]
		stats.ByStatus[string(app.Status)]++

		switch app.Status {
		case domain.ApplicationStatusAccepted, domain.ApplicationStatusCompleted:
			approved++
			decided++
		case domain.ApplicationStatusRejected:
			decided++
		}

		if app.SubmittedAt != nil {
			histogram[app.SubmittedAt.UTC().Format(layout)]++
			if app.Status.IsTerminal() && app.ReviewedAt != nil && !app.ReviewedAt.Before(*app.SubmittedAt) {
				reviewHours += app.ReviewedAt.Sub(*app.SubmittedAt).Hours()
				reviewed++
			}
		}
	}

	if decided > 0 {
		stats.ApprovalRate = round2(float64(approved) / float64(decided) * 100)
	}
	if reviewed > 0 {
		stats.AvgReviewHours = round2(reviewHours / float64(reviewed))
	}

	periods := make([]string, 0, len(histogram))
	for p := range histogram {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	for _, p := range periods {
		stats.Submissions = append(stats.Submissions, domain.HistogramPoint{Period: p, Count: histogram[p]})
	}

	for i := range docs {
		stats.DocumentsByStatus[string(docs[i].Status)]++
		stats.DocumentsByType[string(docs[i].DocumentType)]++
	}
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
