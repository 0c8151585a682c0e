package deadline

import (
	"errors"
	"time"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// Compute returns the last day to file the self-assessment for a transfer
// Logic:
//   - Sale: N business days (Monday to Friday) counted from the day after the transfer
//   - Inheritance: M calendar months after the transfer (date of death)
//
// Public holidays are not modelled, so a sale deadline can be a few days
// earlier than the town hall's calendar.
func Compute(kind domain.TransferKind, transferDate time.Time, deadlines domain.FilingDeadlines) (*domain.FilingDeadline, error) {
	from := truncateToDay(transferDate)

	switch kind {
	case domain.TransferKindSale:
		if deadlines.SaleBusinessDays <= 0 {
			return nil, errors.New("sale filing period must be positive")
		}
		return &domain.FilingDeadline{
			Kind:    kind,
			Amount:  deadlines.SaleBusinessDays,
			Unit:    domain.DeadlineUnitBusinessDays,
			From:    from,
			DueDate: AddBusinessDays(from, deadlines.SaleBusinessDays),
		}, nil
	case domain.TransferKindInheritance:
		if deadlines.InheritanceMonths <= 0 {
			return nil, errors.New("inheritance filing period must be positive")
		}
		return &domain.FilingDeadline{
			Kind:    kind,
			Amount:  deadlines.InheritanceMonths,
			Unit:    domain.DeadlineUnitMonths,
			From:    from,
			DueDate: AddMonths(from, deadlines.InheritanceMonths),
		}, nil
	default:
		return nil, errors.New("transfer kind must be sale or inheritance")
	}
}

// AddBusinessDays moves n weekdays forward from t, skipping Saturdays and Sundays
func AddBusinessDays(t time.Time, n int) time.Time {
	current := t
	for added := 0; added < n; {
		current = current.AddDate(0, 0, 1)
		if isBusinessDay(current) {
			added++
		}
	}
	return current
}

// AddMonths adds n calendar months. When the target month is shorter, the
// period ends on its last day (31 Aug + 6 months = 28/29 Feb).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, t.Location())
}

func isBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
