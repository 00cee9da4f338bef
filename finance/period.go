package finance

import (
	"fmt"
	"strconv"
	"time"
)

// Short month labels used by the dashboard trend series.
var monthShortLabels = [12]string{
	"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic",
}

// Period identifies one YYYY-MM billing cycle.
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod validates the strict YYYY-MM form: four digits, a dash, two
// digits, month 01-12. Returns ErrInvalidPeriod otherwise.
func ParsePeriod(s string) (Period, error) {
	if len(s) != 7 || s[4] != '-' {
		return Period{}, ErrInvalidPeriod
	}
	for i := 0; i < len(s); i++ {
		if i == 4 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return Period{}, ErrInvalidPeriod
		}
	}
	year, _ := strconv.Atoi(s[:4])
	month, _ := strconv.Atoi(s[5:])
	if year < 1 || month < 1 || month > 12 {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// PeriodOf truncates a date to its billing period.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// CurrentPeriod is the period containing today.
func CurrentPeriod() Period {
	return PeriodOf(time.Now())
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// FirstDay returns midnight on the 1st of the period's month.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local)
}

// LastDay returns midnight on the final calendar day of the month; invoices
// generated for the period fall due on this date.
func (p Period) LastDay() time.Time {
	return p.FirstDay().AddDate(0, 1, -1)
}

// ShortLabel is the lowercase three-letter month label (ene..dic).
func (p Period) ShortLabel() string {
	return monthShortLabels[int(p.Month)-1]
}

// Prev steps back one calendar month.
func (p Period) Prev() Period {
	return PeriodOf(p.FirstDay().AddDate(0, -1, 0))
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return t.Year() == p.Year && t.Month() == p.Month
}

// LastPeriods returns the n periods ending at (and including) end, oldest
// first. The dashboard uses n=7.
func LastPeriods(end Period, n int) []Period {
	out := make([]Period, n)
	p := end
	for i := n - 1; i >= 0; i-- {
		out[i] = p
		p = p.Prev()
	}
	return out
}
