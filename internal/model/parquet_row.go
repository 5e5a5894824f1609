package model

import "strconv"

// ClaimParquetRow mirrors the Parquet schema accepted by the offline
// loader. Money fields are float64 dollars matching the Parquet
// representation; they get converted to integer cents during
// normalization. Everything except the business key is optional.
type ClaimParquetRow struct {
	ClaimID       string   `parquet:"claim_id"`
	PatientName   *string  `parquet:"patient_name,optional"`
	BilledAmount  *float64 `parquet:"billed_amount,optional"`
	PaidAmount    *float64 `parquet:"paid_amount,optional"`
	Status        *string  `parquet:"status,optional"`
	InsurerName   *string  `parquet:"insurer_name,optional"`
	DischargeDate *string  `parquet:"discharge_date,optional"`
	CPTCodes      *string  `parquet:"cpt_codes,optional"`
	DenialReason  *string  `parquet:"denial_reason,optional"`
}

// RawRow flattens the Parquet row into the column-name → string form
// shared with the CSV path, so both formats normalize identically.
func (r *ClaimParquetRow) RawRow() map[string]string {
	raw := map[string]string{"claim_id": r.ClaimID}
	putStr := func(col string, v *string) {
		if v != nil {
			raw[col] = *v
		}
	}
	putFloat := func(col string, v *float64) {
		if v != nil {
			raw[col] = strconv.FormatFloat(*v, 'f', 2, 64)
		}
	}
	putStr("patient_name", r.PatientName)
	putFloat("billed_amount", r.BilledAmount)
	putFloat("paid_amount", r.PaidAmount)
	putStr("status", r.Status)
	putStr("insurer_name", r.InsurerName)
	putStr("discharge_date", r.DischargeDate)
	putStr("cpt_codes", r.CPTCodes)
	putStr("denial_reason", r.DenialReason)
	return raw
}
