package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/claimtrack/internal/model"
	embedsql "github.com/gyeh/claimtrack/internal/sql"
)

// PG is the Postgres-backed claim store.
type PG struct {
	pool      *pgxpool.Pool
	batchSize int
}

// NewPG wraps a pool. batchSize caps rows per bulk statement; zero or
// negative means DefaultBatchSize.
func NewPG(pool *pgxpool.Pool, batchSize int) *PG {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &PG{pool: pool, batchSize: batchSize}
}

// FindByClaimIDs loads every claim whose business key is in ids, in one
// query.
func (s *PG) FindByClaimIDs(ctx context.Context, ids []string) ([]model.Claim, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx, embedsql.FindByClaimIDs, ids)
	if err != nil {
		return nil, fmt.Errorf("find claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find claims: %w", err)
	}
	return claims, nil
}

// BulkInsert creates claims via COPY, chunked at the batch size. A
// duplicate business key violates the unique index and fails the chunk.
func (s *PG) BulkInsert(ctx context.Context, claims []*model.Claim) error {
	for start := 0; start < len(claims); start += s.batchSize {
		chunk := claims[start:min(start+s.batchSize, len(claims))]
		_, err := s.pool.CopyFrom(ctx,
			pgx.Identifier{"claims"},
			model.InsertColumns(),
			pgx.CopyFromSlice(len(chunk), func(i int) ([]any, error) {
				return chunk[i].InsertValues(), nil
			}),
		)
		if err != nil {
			return fmt.Errorf("bulk insert claims: %w", err)
		}
	}
	return nil
}

// BulkUpdate writes the mergeable fields of already-reconciled claims,
// chunked at the batch size.
func (s *PG) BulkUpdate(ctx context.Context, claims []*model.Claim) error {
	for start := 0; start < len(claims); start += s.batchSize {
		chunk := claims[start:min(start+s.batchSize, len(claims))]

		batch := &pgx.Batch{}
		for _, c := range chunk {
			batch.Queue(embedsql.UpdateClaimFill,
				c.ClaimID, c.PatientName, c.BilledCents, c.PaidCents,
				c.Status, c.Insurer, c.CPTCodes, c.DenialReason)
		}
		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("bulk update claims: %w", err)
		}
	}
	return nil
}

// DeleteAll purges every claim and reports how many were removed.
func (s *PG) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, embedsql.DeleteAllClaims)
	if err != nil {
		return 0, fmt.Errorf("delete all claims: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetByClaimID fetches one claim by business key, or ErrNotFound.
func (s *PG) GetByClaimID(ctx context.Context, claimID string) (*model.Claim, error) {
	row := s.pool.QueryRow(ctx, embedsql.GetClaim, claimID)
	c, err := scanClaim(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get claim %s: %w", claimID, err)
	}
	return &c, nil
}

// Upsert writes the full record, creating or replacing by business key.
// Used by the offline loader's main-file path.
func (s *PG) Upsert(ctx context.Context, c *model.Claim) (created bool, err error) {
	err = s.pool.QueryRow(ctx, embedsql.UpsertClaim,
		c.ClaimID, c.PatientName, c.BilledCents, c.PaidCents,
		c.Status, c.Insurer, c.DischargeDate, c.CPTCodes, c.DenialReason,
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("upsert claim %s: %w", c.ClaimID, err)
	}
	return created, nil
}

// UpdateDetails patches cpt_codes and denial_reason on an existing
// claim. Used by the offline loader's detail-file path.
func (s *PG) UpdateDetails(ctx context.Context, claimID, cptCodes, denialReason string) error {
	tag, err := s.pool.Exec(ctx, embedsql.UpdateClaimDetails, claimID, cptCodes, denialReason)
	if err != nil {
		return fmt.Errorf("update claim details %s: %w", claimID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of persisted claims.
func (s *PG) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM claims").Scan(&n); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return n, nil
}

// Stats aggregates the system statistics report.
func (s *PG) Stats(ctx context.Context) (*model.SystemStats, error) {
	st := &model.SystemStats{}

	err := s.pool.QueryRow(ctx, embedsql.StatsTotals).Scan(
		&st.TotalClaims, &st.FlaggedClaims,
		&st.TotalBilledCents, &st.TotalPaidCents, &st.AvgBilledCents)
	if err != nil {
		return nil, fmt.Errorf("stats totals: %w", err)
	}

	err = s.pool.QueryRow(ctx, embedsql.StatsUnderpayment).Scan(
		&st.TotalUnderpaidCents, &st.AvgUnderpaidCents)
	if err != nil {
		return nil, fmt.Errorf("stats underpayment: %w", err)
	}

	rows, err := s.pool.Query(ctx, embedsql.StatsByStatus)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sc model.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		if st.TotalClaims > 0 {
			sc.Percent = float64(sc.Count) / float64(st.TotalClaims) * 100
		}
		st.ByStatus = append(st.ByStatus, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}

	irows, err := s.pool.Query(ctx, embedsql.StatsByInsurer)
	if err != nil {
		return nil, fmt.Errorf("stats by insurer: %w", err)
	}
	defer irows.Close()
	for irows.Next() {
		var ic model.InsurerCount
		if err := irows.Scan(&ic.Insurer, &ic.Count); err != nil {
			return nil, fmt.Errorf("scan insurer count: %w", err)
		}
		st.TopInsurers = append(st.TopInsurers, ic)
	}
	if err := irows.Err(); err != nil {
		return nil, fmt.Errorf("stats by insurer: %w", err)
	}

	return st, nil
}

func scanClaim(row pgx.Row) (model.Claim, error) {
	var c model.Claim
	err := row.Scan(
		&c.ID, &c.ClaimID, &c.PatientName, &c.BilledCents, &c.PaidCents,
		&c.Status, &c.Insurer, &c.DischargeDate, &c.CPTCodes,
		&c.DenialReason, &c.IsFlagged, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}
