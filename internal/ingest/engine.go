package ingest

import (
	"context"
	"fmt"

	"github.com/gyeh/claimtrack/internal/model"
)

// Store is the slice of the storage layer the reconciliation engine
// needs. The engine decides which fields change; the store owns
// durability and key uniqueness.
type Store interface {
	FindByClaimIDs(ctx context.Context, ids []string) ([]model.Claim, error)
	BulkInsert(ctx context.Context, claims []*model.Claim) error
	BulkUpdate(ctx context.Context, claims []*model.Claim) error
	DeleteAll(ctx context.Context) (int64, error)
}

// pendingClaim tracks one business key's in-memory state while a batch
// is being partitioned, so later rows for the same key (within a file
// or from the second file) merge against the already-decided record
// instead of a stale snapshot.
type pendingClaim struct {
	claim     *model.Claim
	fromStore bool
	queued    bool // already in the update set
}

// reconcile turns a batch of normalized rows into one bulk insert plus
// one bulk update, applying the fill-only-if-blank merge policy against
// existing claims fetched in a single lookup.
func (s *Service) reconcile(ctx context.Context, rows []model.ClaimRow) (created, updated int, err error) {
	if len(rows) == 0 {
		return 0, 0, nil
	}

	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.ClaimID] {
			seen[row.ClaimID] = true
			ids = append(ids, row.ClaimID)
		}
	}

	existing, err := s.store.FindByClaimIDs(ctx, ids)
	if err != nil {
		return 0, 0, fmt.Errorf("lookup existing claims: %w", err)
	}
	byID := make(map[string]model.Claim, len(existing))
	for _, c := range existing {
		byID[c.ClaimID] = c
	}

	pending := make(map[string]*pendingClaim, len(ids))
	var creates, updates []*model.Claim

	for _, row := range rows {
		if p, ok := pending[row.ClaimID]; ok {
			// Key already decided this batch: merge into the pending
			// record. A change to a record loaded from the store marks
			// it for update exactly once; a change to a pending create
			// just enriches the create.
			if p.claim.FillBlanks(row) && p.fromStore && !p.queued {
				p.queued = true
				updates = append(updates, p.claim)
				updated++
			}
			continue
		}

		if ex, ok := byID[row.ClaimID]; ok {
			c := ex
			p := &pendingClaim{claim: &c, fromStore: true}
			pending[row.ClaimID] = p
			if c.FillBlanks(row) {
				p.queued = true
				updates = append(updates, &c)
				updated++
			}
			continue
		}

		c := model.NewClaim(row)
		pending[row.ClaimID] = &pendingClaim{claim: c}
		creates = append(creates, c)
		created++
	}

	if len(creates) > 0 {
		if err := s.store.BulkInsert(ctx, creates); err != nil {
			return 0, 0, err
		}
	}
	if len(updates) > 0 {
		if err := s.store.BulkUpdate(ctx, updates); err != nil {
			return 0, 0, err
		}
	}

	return created, updated, nil
}
