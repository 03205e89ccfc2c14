package usecase

import (
	"math"
	"sort"
	"strings"

	"employee-onboarding-backend/internal/domain"
)

// FilterApplications applies the admin search, status filter and sort to an
// in-memory list. The input slice is not modified.
func FilterApplications(apps []domain.Application, q domain.ApplicationQuery) []domain.Application {
	q.Normalize()

	search := strings.ToLower(strings.TrimSpace(q.Search))
	var status domain.ApplicationStatus
	if q.Status != "" {
		// Unknown statuses match nothing rather than everything
		status, _ = domain.ParseApplicationStatus(q.Status)
	}

	out := make([]domain.Application, 0, len(apps))
	for _, app := range apps {
		if status != "" && app.Status != status {
			continue
		}
		if search != "" && !matchesSearch(&app, search) {
			continue
		}
		out = append(out, app)
	}

	switch q.Sort {
	case domain.SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case domain.SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].DisplayName()) < strings.ToLower(out[j].DisplayName())
		})
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out
}

func matchesSearch(app *domain.Application, needle string) bool {
	haystacks := []string{app.DisplayName(), app.DisplayEmail(), app.PostApplied}
	if app.ProfileName != nil {
		haystacks = append(haystacks, *app.ProfileName)
	}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Paginate slices one page out of items; out-of-range pages are empty
func Paginate[T any](items []T, page, pageSize int) *domain.PaginatedResult[T] {
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	// compare before multiplying so huge page numbers cannot overflow
	start := total
	if page-1 < total/pageSize+1 {
		start = (page - 1) * pageSize
	}
	if start > total {
		start = total
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return &domain.PaginatedResult[T]{
		Data:       data,
		Total:      int64(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}
}
