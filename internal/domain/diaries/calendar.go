package diaries

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
)

// MonthLayout es el formato del parámetro de mes del calendario.
const MonthLayout = "2006-01"

const dayLayout = "2006-01-02"

var ErrInvalidMonth = errors.New("month must be YYYY-MM")

// Day agrupa las entradas de un día del calendario.
type Day struct {
	Date    string  `json:"date"`
	Entries []Entry `json:"-"`
}

// Month son los datos del calendario mensual de un autor.
type Month struct {
	Month string `json:"month"`
	Days  []Day  `json:"days"`
}

// ParseMonth acepta "YYYY-MM"; vacío => mes actual en loc.
func ParseMonth(v string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	v = strings.TrimSpace(v)
	if v == "" {
		n := now.In(loc)
		return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(MonthLayout, v, loc)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// Calendar devuelve las entradas del mes agrupadas por día, en orden
// cronológico. Los días sin entradas no aparecen.
func (s *Service) Calendar(ctx context.Context, authorID string, month time.Time) (Month, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	to := from.AddDate(0, 1, 0)

	out := Month{Month: from.Format(MonthLayout), Days: []Day{}}

	items, err := s.ListByAuthor(ctx, authorID, ListFilter{From: &from, To: &to})
	if err != nil {
		return Month{}, err
	}
	out.Days = groupByDay(items, month.Location())
	return out, nil
}

func groupByDay(items []Entry, loc *time.Location) []Day {
	byDate := make(map[string][]Entry)
	for _, e := range items {
		d := e.CreatedAt.In(loc).Format(dayLayout)
		byDate[d] = append(byDate[d], e)
	}

	days := make([]Day, 0, len(byDate))
	for d, entries := range byDate {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].CreatedAt.Before(entries[j].CreatedAt)
		})
		days = append(days, Day{Date: d, Entries: entries})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
