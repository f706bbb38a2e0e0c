package payroll

import (
	"fmt"
	"sort"

	"go-rota/internal/attendance"
	"go-rota/internal/interval"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegularWeekMinutes is the weekly cap paid at the base rate.
const RegularWeekMinutes = 40 * 60

var (
	overtimeMultiplier = decimal.NewFromFloat(1.5)
	minutesPerHour     = decimal.NewFromInt(60)
)

type weekBucket struct {
	year    int
	number  int
	key     string
	minutes int
}

type workerBucket struct {
	earliest attendance.Attendance
	weeks    map[string]*weekBucket
}

// Calculate turns approved attendance into one payslip per worker. Hours
// are bucketed by week; the first 40h of a week are regular and the rest
// overtime at 1.5x. Workers with no positive hourly rate are skipped.
// Payslips are ordered by worker id and their line items by week.
func Calculate(records []attendance.Attendance, rates map[uuid.UUID]decimal.Decimal) ([]Payslip, error) {
	workers := make(map[uuid.UUID]*workerBucket)

	for _, rec := range records {
		minutes, err := rec.WorkedMinutes()
		if err != nil {
			return nil, fmt.Errorf("attendance %s: %w", rec.ID, err)
		}

		wb, ok := workers[rec.WorkerID]
		if !ok {
			wb = &workerBucket{earliest: rec, weeks: make(map[string]*weekBucket)}
			workers[rec.WorkerID] = wb
		} else if earlier(rec, wb.earliest) {
			wb.earliest = rec
		}

		key := interval.WeekKey(rec.Date)
		week, ok := wb.weeks[key]
		if !ok {
			week = &weekBucket{year: rec.Date.Year(), number: interval.WeekNumber(rec.Date), key: key}
			wb.weeks[key] = week
		}
		week.minutes += minutes
	}

	ids := make([]uuid.UUID, 0, len(workers))
	for id := range workers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	payslips := make([]Payslip, 0, len(ids))
	for _, id := range ids {
		rate, ok := rates[id]
		if !ok || !rate.IsPositive() {
			continue
		}

		wb := workers[id]
		items := lineItems(sortedWeeks(wb.weeks), rate)

		gross := decimal.Zero
		for _, item := range items {
			gross = gross.Add(item.Amount)
		}

		payslips = append(payslips, Payslip{
			WorkerID:   id,
			SiteID:     wb.earliest.SiteID,
			GrossPay:   gross,
			Deductions: decimal.Zero,
			NetPay:     gross,
			LineItems:  items,
		})
	}
	return payslips, nil
}

func lineItems(weeks []*weekBucket, rate decimal.Decimal) []LineItem {
	overtimeRate := rate.Mul(overtimeMultiplier)

	items := make([]LineItem, 0, len(weeks)*2)
	for _, w := range weeks {
		regular := w.minutes
		if regular > RegularWeekMinutes {
			regular = RegularWeekMinutes
		}
		overtime := w.minutes - regular

		if regular > 0 {
			items = append(items, paidItem(
				fmt.Sprintf("regular-%s", w.key),
				fmt.Sprintf("Regular hours - %s", w.key),
				LineItemRegular, regular, rate,
			))
		}
		if overtime > 0 {
			items = append(items, paidItem(
				fmt.Sprintf("overtime-%s", w.key),
				fmt.Sprintf("Overtime hours (1.5x) - %s", w.key),
				LineItemOvertime, overtime, overtimeRate,
			))
		}
	}
	return items
}

func paidItem(id, description, itemType string, minutes int, rate decimal.Decimal) LineItem {
	m := decimal.NewFromInt(int64(minutes))
	hours := m.Div(minutesPerHour).Round(2)
	shownRate := rate.Round(2)
	return LineItem{
		ID:          id,
		Description: description,
		Type:        itemType,
		Hours:       &hours,
		Rate:        &shownRate,
		Amount:      m.Mul(rate).Div(minutesPerHour).Round(2),
	}
}

func sortedWeeks(weeks map[string]*weekBucket) []*weekBucket {
	out := make([]*weekBucket, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].year != out[j].year {
			return out[i].year < out[j].year
		}
		return out[i].number < out[j].number
	})
	return out
}

func earlier(a, b attendance.Attendance) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.ClockIn < b.ClockIn
}
