package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/gyeh/claimtrack/internal/model"
)

func TestRow_FullRecord(t *testing.T) {
	raw := map[string]string{
		"claim_id":       "30001",
		"patient_name":   "Jane Doe",
		"billed_amount":  "500.00",
		"paid_amount":    "0",
		"status":         "Under Review",
		"insurer_name":   "Acme",
		"discharge_date": "2024-01-01",
		"cpt_codes":      "99213",
		"denial_reason":  "",
	}

	row, err := Row(raw)
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row.ClaimID != "30001" {
		t.Errorf("claim_id = %q", row.ClaimID)
	}
	if row.BilledCents != 50000 {
		t.Errorf("billed = %d, want 50000", row.BilledCents)
	}
	if row.PaidCents != 0 {
		t.Errorf("paid = %d, want 0", row.PaidCents)
	}
	if row.Status != model.StatusUnderReview {
		t.Errorf("status = %q, want under_review", row.Status)
	}
	if row.DenialReason != model.PlaceholderText {
		t.Errorf("denial_reason = %q, want placeholder", row.DenialReason)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if row.DischargeDate == nil || !row.DischargeDate.Equal(want) {
		t.Errorf("discharge_date = %v, want %v", row.DischargeDate, want)
	}
}

func TestRow_Defaults(t *testing.T) {
	row, err := Row(map[string]string{"claim_id": "X1"})
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row.PatientName != model.PlaceholderText || row.Insurer != model.PlaceholderText ||
		row.CPTCodes != model.PlaceholderText || row.DenialReason != model.PlaceholderText {
		t.Errorf("text defaults not applied: %+v", row)
	}
	if row.BilledCents != 0 || row.PaidCents != 0 {
		t.Errorf("amount defaults not applied: %+v", row)
	}
	if row.Status != model.DefaultStatus {
		t.Errorf("status = %q, want default", row.Status)
	}
	if row.DischargeDate != nil {
		t.Errorf("discharge_date = %v, want nil", row.DischargeDate)
	}
}

func TestRow_KeyFallbackToID(t *testing.T) {
	row, err := Row(map[string]string{"id": " 30002 "})
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row.ClaimID != "30002" {
		t.Errorf("claim_id = %q, want trimmed id fallback", row.ClaimID)
	}
}

func TestRow_MissingKey(t *testing.T) {
	for _, raw := range []map[string]string{
		{},
		{"claim_id": ""},
		{"claim_id": "   ", "id": ""},
		{"patient_name": "Jane Doe"},
	} {
		if _, err := Row(raw); !errors.Is(err, ErrMissingClaimID) {
			t.Errorf("Row(%v) err = %v, want ErrMissingClaimID", raw, err)
		}
	}
}

func TestRow_BadAmount(t *testing.T) {
	_, err := Row(map[string]string{"claim_id": "30003", "billed_amount": "abc"})
	if err == nil {
		t.Fatal("expected error for unparsable amount")
	}
	if errors.Is(err, ErrMissingClaimID) {
		t.Fatalf("wrong error kind: %v", err)
	}
}

func TestRow_UnrecognizedStatusPassesThrough(t *testing.T) {
	row, err := Row(map[string]string{"claim_id": "30004", "status": "In Appeal"})
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row.Status != "in_appeal" {
		t.Errorf("status = %q, want in_appeal", row.Status)
	}
}

func TestRow_UnparsableDateLeftUnset(t *testing.T) {
	row, err := Row(map[string]string{"claim_id": "30005", "discharge_date": "not a date"})
	if err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row.DischargeDate != nil {
		t.Errorf("discharge_date = %v, want nil", row.DischargeDate)
	}
}

func TestParseCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"500.00", 50000, false},
		{"0", 0, false},
		{" 750.5 ", 75050, false},
		{"19.995", 2000, false},
		{"-12.34", -1234, false},
		{"", 0, true},
		{"1,000.00", 0, true},
		{"abc", 0, true},
	}
	for _, c := range cases {
		got, err := ParseCents(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseCents(%q) err = %v, wantErr=%v", c.in, err, c.wantErr)
			continue
		}
		if err == nil && got != c.want {
			t.Errorf("ParseCents(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestStatus(t *testing.T) {
	cases := map[string]string{
		"Under Review":  "under_review",
		"PAID":          "paid",
		"denied":        "denied",
		"":              model.DefaultStatus,
		"  Paid  ":      "paid",
		"In Appeal Now": "in_appeal_now",
	}
	for in, want := range cases {
		if got := Status(in); got != want {
			t.Errorf("Status(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	if d := ParseDate("2024-03-15"); d == nil || d.Day() != 15 {
		t.Errorf("ISO date: %v", d)
	}
	if d := ParseDate("03/15/2024"); d == nil || d.Month() != time.March {
		t.Errorf("US date: %v", d)
	}
	if d := ParseDate(""); d != nil {
		t.Errorf("empty date: %v", d)
	}
	if d := ParseDate("garbage"); d != nil {
		t.Errorf("garbage date: %v", d)
	}
}
