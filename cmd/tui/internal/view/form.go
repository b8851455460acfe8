package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

// txFormValues lives on the heap so the form keeps writing to the same
// fields while the surrounding model is copied between updates.
type txFormValues struct {
	Amount      string
	Date        string
	Description string
	Type        string
}

func newTxFormValues(now time.Time) *txFormValues {
	return &txFormValues{
		Date: now.Format(time.DateOnly),
		Type: string(transaction.TypeExpense),
	}
}

func txFormValuesFrom(tx *transaction.Transaction) *txFormValues {
	return &txFormValues{
		Amount:      tx.Amount.String(),
		Date:        tx.Date.Format(time.DateOnly),
		Description: tx.Description,
		Type:        string(tx.Type),
	}
}

func (v *txFormValues) payload() transaction.Payload {
	return transaction.Payload{
		Amount:      strings.TrimSpace(v.Amount),
		Date:        strings.TrimSpace(v.Date),
		Description: v.Description,
		Type:        v.Type,
	}
}

func newTxForm(v *txFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&v.Amount).
				Validate(validateAmount),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&v.Date).
				Validate(validateDate),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&v.Description).
				Validate(validateDescription),

			huh.NewSelect[string]().
				Key("type").
				Title("Type").
				Options(
					huh.NewOption("Expense", string(transaction.TypeExpense)),
					huh.NewOption("Income", string(transaction.TypeIncome)),
				).
				Value(&v.Type),
		),
	).WithWidth(45).WithShowHelp(false)
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return errors.New("amount must be a number")
	}

	if !d.IsPositive() {
		return errors.New("amount must be greater than 0")
	}

	return nil
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("date is required")
	}

	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}

	return nil
}

func validateDescription(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("description is required")
	}

	return nil
}
