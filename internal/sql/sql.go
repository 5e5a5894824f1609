// Package sql holds the embedded schema migrations and query text used
// by the store. One file per query, embedded at build time.
package sql

import "embed"

// Migrations contains the schema migration files, applied in filename
// order.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/find_by_claim_ids.sql
var FindByClaimIDs string

//go:embed queries/update_claim_fill.sql
var UpdateClaimFill string

//go:embed queries/delete_all_claims.sql
var DeleteAllClaims string

//go:embed queries/get_claim.sql
var GetClaim string

//go:embed queries/upsert_claim.sql
var UpsertClaim string

//go:embed queries/update_claim_details.sql
var UpdateClaimDetails string

//go:embed queries/stats_totals.sql
var StatsTotals string

//go:embed queries/stats_underpayment.sql
var StatsUnderpayment string

//go:embed queries/stats_by_status.sql
var StatsByStatus string

//go:embed queries/stats_by_insurer.sql
var StatsByInsurer string
