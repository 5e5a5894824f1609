// Package loader is the operational row-at-a-time loader: it reads a
// claims file from disk (CSV, JSON, or Parquet) and writes records one
// by one, logging a progress line per row. Unlike the upload path it
// performs full upserts and no bulk lookup.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/claimtrack/internal/csvread"
	"github.com/gyeh/claimtrack/internal/model"
	"github.com/gyeh/claimtrack/internal/normalize"
	"github.com/gyeh/claimtrack/internal/store"
)

// Store is the slice of the storage layer the loader needs.
type Store interface {
	Upsert(ctx context.Context, c *model.Claim) (created bool, err error)
	GetByClaimID(ctx context.Context, claimID string) (*model.Claim, error)
	UpdateDetails(ctx context.Context, claimID, cptCodes, denialReason string) error
	DeleteAll(ctx context.Context) (int64, error)
}

// Options configures one loader run.
type Options struct {
	Path   string
	Format string // "csv", "json", or "parquet"
	Clear  bool   // delete all claims before loading
}

// Result counts what one run did.
type Result struct {
	Created int
	Updated int
	Patched int
	Skipped int
	Errors  int
}

// Run loads the file described by opts into the store.
func Run(ctx context.Context, st Store, log zerolog.Logger, opts Options) (*Result, error) {
	if opts.Clear {
		deleted, err := st.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("clear claims: %w", err)
		}
		log.Info().Int64("deleted", deleted).Msg("existing claims cleared")
	}

	var (
		res *Result
		err error
	)
	switch opts.Format {
	case "csv":
		res, err = loadCSV(ctx, st, log, opts.Path)
	case "json":
		res, err = loadJSON(ctx, st, log, opts.Path)
	case "parquet":
		res, err = loadParquet(ctx, st, log, opts.Path)
	default:
		return nil, fmt.Errorf("unknown format %q (want csv, json, or parquet)", opts.Format)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("created", res.Created).
		Int("updated", res.Updated).
		Int("patched", res.Patched).
		Int("skipped", res.Skipped).
		Int("errors", res.Errors).
		Msg("load complete")
	return res, nil
}

func loadCSV(ctx context.Context, st Store, log zerolog.Logger, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rdr, err := csvread.Open(f)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// A detail file carries claim_id but no patient data; it patches
	// cpt_codes/denial_reason onto existing claims only. Anything with
	// patient_name is a main file and gets full upserts.
	detail := rdr.HasColumn("claim_id") && !rdr.HasColumn("patient_name")
	if detail {
		log.Info().Str("file", path).Msg("processing detail file")
	} else {
		log.Info().Str("file", path).Msg("processing main claims file")
	}

	res := &Result{}
	for {
		raw, rowNum, err := rdr.Read()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		if detail {
			loadDetailRow(ctx, st, log, raw, rowNum, res)
		} else {
			loadMainRow(ctx, st, log, raw, rowNum, res)
		}
	}
}

// loadMainRow upserts one full claim record. The loader path defaults
// a missing or unparsable discharge date to the load day.
func loadMainRow(ctx context.Context, st Store, log zerolog.Logger, raw map[string]string, rowNum int, res *Result) {
	row, err := normalize.Row(raw)
	if err != nil {
		log.Warn().Int("row", rowNum).Err(err).Msg("row skipped")
		res.Errors++
		return
	}
	if row.DischargeDate == nil {
		// Local calendar day, not a UTC truncation: west of UTC the
		// latter lands on yesterday for most of the day.
		now := time.Now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		row.DischargeDate = &today
	}

	created, err := st.Upsert(ctx, model.NewClaim(*row))
	if err != nil {
		log.Warn().Int("row", rowNum).Str("claim_id", row.ClaimID).Err(err).Msg("upsert failed")
		res.Errors++
		return
	}
	if created {
		res.Created++
		log.Info().Str("claim_id", row.ClaimID).Msg("created claim")
	} else {
		res.Updated++
		log.Info().Str("claim_id", row.ClaimID).Msg("updated claim")
	}
}

// loadDetailRow patches detail fields onto an existing claim. Unknown
// keys are skipped, never created.
func loadDetailRow(ctx context.Context, st Store, log zerolog.Logger, raw map[string]string, rowNum int, res *Result) {
	claimID := strings.TrimSpace(raw["claim_id"])
	if claimID == "" {
		res.Skipped++
		return
	}

	claim, err := st.GetByClaimID(ctx, claimID)
	if errors.Is(err, store.ErrNotFound) {
		log.Info().Str("claim_id", claimID).Msg("claim not found, skipping detail update")
		res.Skipped++
		return
	}
	if err != nil {
		log.Warn().Int("row", rowNum).Str("claim_id", claimID).Err(err).Msg("lookup failed")
		res.Errors++
		return
	}

	cpt := claim.CPTCodes
	if v := strings.TrimSpace(raw["cpt_codes"]); v != "" {
		cpt = v
	}
	denial := claim.DenialReason
	if v := strings.TrimSpace(raw["denial_reason"]); v != "" && v != model.PlaceholderText {
		denial = v
	}

	if err := st.UpdateDetails(ctx, claimID, cpt, denial); err != nil {
		log.Warn().Int("row", rowNum).Str("claim_id", claimID).Err(err).Msg("detail update failed")
		res.Errors++
		return
	}
	res.Patched++
	log.Info().Str("claim_id", claimID).Msg("updated details for claim")
}
