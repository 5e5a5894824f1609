package model

import "time"

// Placeholder defaults used by the fill-only-if-blank merge policy.
// A field holding its placeholder is treated as "never set" and may be
// overwritten by an incoming non-placeholder value; anything else is
// user data and is never touched by bulk ingestion.
const (
	PlaceholderText = "N/A"
	DefaultStatus   = StatusUnderReview
)

// Known claim statuses. The status column is free text: unrecognized
// values pass through normalization unchanged and are persisted as-is.
const (
	StatusDenied      = "denied"
	StatusPaid        = "paid"
	StatusUnderReview = "under_review"
)

// ClaimRow is the normalized form of one input row, ready for
// reconciliation. Money values are int64 cents. A nil DischargeDate
// means the input had none (or an unparsable one); the bulk path keeps
// it unset.
type ClaimRow struct {
	ClaimID       string
	PatientName   string
	BilledCents   int64
	PaidCents     int64
	Status        string
	Insurer       string
	DischargeDate *time.Time
	CPTCodes      string
	DenialReason  string
}

// Claim is the persisted entity, keyed by the claim_id business key
// (unique index in the store) independent of the surrogate ID.
type Claim struct {
	ID            int64
	ClaimID       string
	PatientName   string
	BilledCents   int64
	PaidCents     int64
	Status        string
	Insurer       string
	DischargeDate *time.Time
	CPTCodes      string
	DenialReason  string
	IsFlagged     bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewClaim builds a fresh entity from a normalized row. All fields are
// taken as given; defaults were already applied during normalization.
func NewClaim(row ClaimRow) *Claim {
	return &Claim{
		ClaimID:       row.ClaimID,
		PatientName:   row.PatientName,
		BilledCents:   row.BilledCents,
		PaidCents:     row.PaidCents,
		Status:        row.Status,
		Insurer:       row.Insurer,
		DischargeDate: row.DischargeDate,
		CPTCodes:      row.CPTCodes,
		DenialReason:  row.DenialReason,
	}
}

// FillBlanks applies the fill-only-if-blank merge policy: each mergeable
// field is overwritten only when the claim currently holds that field's
// placeholder default and the incoming value is non-default. Reports
// whether anything changed. DischargeDate and IsFlagged are not
// mergeable.
func (c *Claim) FillBlanks(row ClaimRow) bool {
	changed := false

	if row.PatientName != PlaceholderText && c.PatientName == PlaceholderText {
		c.PatientName = row.PatientName
		changed = true
	}
	if row.BilledCents != 0 && c.BilledCents == 0 {
		c.BilledCents = row.BilledCents
		changed = true
	}
	if row.PaidCents != 0 && c.PaidCents == 0 {
		c.PaidCents = row.PaidCents
		changed = true
	}
	if row.Status != DefaultStatus && c.Status == DefaultStatus {
		c.Status = row.Status
		changed = true
	}
	if row.Insurer != PlaceholderText && c.Insurer == PlaceholderText {
		c.Insurer = row.Insurer
		changed = true
	}
	if row.CPTCodes != PlaceholderText && c.CPTCodes == PlaceholderText {
		c.CPTCodes = row.CPTCodes
		changed = true
	}
	if row.DenialReason != PlaceholderText && c.DenialReason == PlaceholderText {
		c.DenialReason = row.DenialReason
		changed = true
	}

	return changed
}

// InsertColumns returns the ordered column names for COPY into claims.
func InsertColumns() []string {
	return []string{
		"claim_id",
		"patient_name",
		"billed_cents",
		"paid_cents",
		"status",
		"insurer",
		"discharge_date",
		"cpt_codes",
		"denial_reason",
	}
}

// InsertValues returns the claim's values in InsertColumns order.
func (c *Claim) InsertValues() []any {
	return []any{
		c.ClaimID,
		c.PatientName,
		c.BilledCents,
		c.PaidCents,
		c.Status,
		c.Insurer,
		c.DischargeDate,
		c.CPTCodes,
		c.DenialReason,
	}
}
