package model

import "fmt"

// MaxErrorDetails caps how many per-row error messages an UploadResult
// surfaces. All errors are still counted.
const MaxErrorDetails = 10

// UploadResult aggregates the outcome of one upload batch (one or two
// files reconciled together).
type UploadResult struct {
	BatchID      string
	Created      int
	Updated      int
	Errors       int
	Deleted      int
	ErrorDetails []string
}

// AddErrorDetail counts a row error and retains its message up to
// MaxErrorDetails.
func (r *UploadResult) AddErrorDetail(msg string) {
	r.Errors++
	if len(r.ErrorDetails) < MaxErrorDetails {
		r.ErrorDetails = append(r.ErrorDetails, msg)
	}
}

// Summary renders the human-readable completion message shown to the
// uploader.
func (r *UploadResult) Summary() string {
	s := fmt.Sprintf("Upload completed! %d created, %d updated", r.Created, r.Updated)
	if r.Deleted > 0 {
		s += fmt.Sprintf(", %d deleted", r.Deleted)
	}
	s += fmt.Sprintf(", %d errors.", r.Errors)
	return s
}

// SystemStats is the aggregate report behind the stats command.
type SystemStats struct {
	TotalClaims         int64
	FlaggedClaims       int64
	TotalBilledCents    int64
	TotalPaidCents      int64
	AvgBilledCents      int64
	TotalUnderpaidCents int64
	AvgUnderpaidCents   int64
	ByStatus            []StatusCount
	TopInsurers         []InsurerCount
}

// StatusCount is one row of the status distribution.
type StatusCount struct {
	Status  string
	Count   int64
	Percent float64
}

// InsurerCount is one row of the per-insurer distribution.
type InsurerCount struct {
	Insurer string
	Count   int64
}
