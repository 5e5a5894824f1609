package normalize

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gyeh/claimtrack/internal/model"
)

// ErrMissingClaimID marks a row with no usable business key. It is the
// only normalization failure that is not tied to a specific field value.
var ErrMissingClaimID = errors.New("no claim ID found")

// Row converts one raw column→value mapping into a normalized ClaimRow.
//
// The business key comes from "claim_id", falling back to "id"; a row
// with neither fails with ErrMissingClaimID. Missing or empty fields
// default independently (placeholder text, zero cents, under_review).
// A non-empty amount that does not parse fails the row. An unparsable
// date does not: the bulk path leaves the date unset.
func Row(raw map[string]string) (*model.ClaimRow, error) {
	claimID := strings.TrimSpace(raw["claim_id"])
	if claimID == "" {
		claimID = strings.TrimSpace(raw["id"])
	}
	if claimID == "" {
		return nil, ErrMissingClaimID
	}

	billed, err := amountField(raw, "billed_amount")
	if err != nil {
		return nil, err
	}
	paid, err := amountField(raw, "paid_amount")
	if err != nil {
		return nil, err
	}

	return &model.ClaimRow{
		ClaimID:       claimID,
		PatientName:   textField(raw, "patient_name"),
		BilledCents:   billed,
		PaidCents:     paid,
		Status:        Status(raw["status"]),
		Insurer:       textField(raw, "insurer_name"),
		DischargeDate: ParseDate(raw["discharge_date"]),
		CPTCodes:      textField(raw, "cpt_codes"),
		DenialReason:  textField(raw, "denial_reason"),
	}, nil
}

// textField trims the named column, substituting the placeholder for
// missing or empty values.
func textField(raw map[string]string, col string) string {
	s := strings.TrimSpace(raw[col])
	if s == "" {
		return model.PlaceholderText
	}
	return s
}

// amountField parses the named column to cents. Missing or empty means
// zero; present but unparsable is a row error naming the column.
func amountField(raw map[string]string, col string) (int64, error) {
	s := strings.TrimSpace(raw[col])
	if s == "" {
		return 0, nil
	}
	cents, err := ParseCents(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return cents, nil
}
