package payroll

import (
	"fmt"
	"strings"

	payrollerrors "go-rota/internal/payroll/errors"

	"github.com/shopspring/decimal"
)

type DeductionInput struct {
	Amount decimal.Decimal
	Reason string
	Type   string
}

// ApplyDeduction appends a deduction line to p and recomputes its totals.
// The payslip is left untouched on error. Amounts are rounded to cents
// before the positivity check.
func ApplyDeduction(p *Payslip, runStatus string, in DeductionInput) (LineItem, error) {
	amount := in.Amount.Round(2)
	if !amount.IsPositive() {
		return LineItem{}, payrollerrors.ErrInvalidDeductionAmount
	}
	if runStatus == RunStatusFinalized {
		return LineItem{}, payrollerrors.ErrRunFinalized
	}

	itemType := strings.TrimSpace(in.Type)
	if itemType == "" {
		itemType = LineItemDeduction
	}

	item := LineItem{
		ID:          fmt.Sprintf("deduction-%d", countDeductions(p.LineItems)+1),
		Description: strings.TrimSpace(in.Reason),
		Type:        itemType,
		Amount:      amount.Neg(),
	}

	p.LineItems = append(p.LineItems, item)
	p.Deductions = p.Deductions.Add(amount)
	p.NetPay = p.GrossPay.Sub(p.Deductions)
	return item, nil
}

func countDeductions(items []LineItem) int {
	n := 0
	for _, item := range items {
		if item.Amount.IsNegative() {
			n++
		}
	}
	return n
}
