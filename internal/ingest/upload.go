// Package ingest implements the bulk upload entry point: one or two
// CSV files are normalized into a single batch and reconciled against
// the claim store with an upsert-with-fill-only-if-blank policy.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimtrack/internal/csvread"
	"github.com/gyeh/claimtrack/internal/model"
	"github.com/gyeh/claimtrack/internal/normalize"
)

// MaxFileSize is the per-file upload cap.
const MaxFileSize = 4 * 1024 * 1024

// MaxFiles is how many files one batch may carry.
const MaxFiles = 2

// Mode selects how a batch treats existing claims.
type Mode string

const (
	// ModeAppend preserves existing claims; only placeholder-default
	// fields may be filled in.
	ModeAppend Mode = "append"
	// ModeOverwrite deletes every existing claim before ingesting.
	ModeOverwrite Mode = "overwrite"
)

// File is one uploaded byte stream with its declared name.
type File struct {
	Name string
	Data io.Reader
}

// Service is the ingestion entry point consumed by the upload surface.
type Service struct {
	store       Store
	log         zerolog.Logger
	maxFileSize int64
}

// NewService builds a Service. maxFileSize of zero or less means
// MaxFileSize.
func NewService(st Store, log zerolog.Logger, maxFileSize int64) *Service {
	if maxFileSize <= 0 {
		maxFileSize = MaxFileSize
	}
	return &Service{store: st, log: log, maxFileSize: maxFileSize}
}

// Upload validates, normalizes, and reconciles one batch of files.
// Validation problems return *ValidationError before any database
// access; failures mid-batch return *ProcessingError. Per-row problems
// never fail the batch: they are counted on the result, with the first
// few messages retained.
func (s *Service) Upload(ctx context.Context, files []File, mode Mode) (*model.UploadResult, error) {
	if len(files) == 0 {
		return nil, validationErrorf("please select at least one CSV file")
	}
	if len(files) > MaxFiles {
		return nil, validationErrorf("at most %d files per upload", MaxFiles)
	}
	if mode != ModeAppend && mode != ModeOverwrite {
		return nil, validationErrorf("unknown upload mode %q", mode)
	}

	// Pull every file into memory up front: the size cap is small, and
	// it keeps unreadable input from leaving partial side effects.
	contents := make([][]byte, len(files))
	for i, f := range files {
		if !strings.HasSuffix(f.Name, ".csv") {
			return nil, validationErrorf("file %q must be a valid CSV file", f.Name)
		}
		data, err := io.ReadAll(io.LimitReader(f.Data, s.maxFileSize+1))
		if err != nil {
			return nil, &ProcessingError{Op: fmt.Sprintf("read %s", f.Name), Err: err}
		}
		if int64(len(data)) > s.maxFileSize {
			return nil, validationErrorf("file %q is too large, limit is %d MB", f.Name, s.maxFileSize/(1024*1024))
		}
		contents[i] = data
	}

	batchID := uuid.New()
	log := s.log.With().Str("batch_id", batchID.String()).Logger()
	result := &model.UploadResult{BatchID: batchID.String()}

	if mode == ModeOverwrite {
		deleted, err := s.store.DeleteAll(ctx)
		if err != nil {
			return nil, &ProcessingError{Op: "overwrite purge", Err: err}
		}
		result.Deleted = int(deleted)
		log.Info().Int64("deleted", deleted).Msg("existing claims purged")
	}

	// Normalize every row of every file into one logical batch. Row
	// numbers restart per file, matching the surfaced error messages.
	var rows []model.ClaimRow
	for i, f := range files {
		fileRows, err := s.normalizeFile(contents[i], result)
		if err != nil {
			return nil, &ProcessingError{Op: fmt.Sprintf("parse %s", f.Name), Err: err}
		}
		log.Info().
			Str("file", f.Name).
			Int("rows", len(fileRows)).
			Msg("file normalized")
		rows = append(rows, fileRows...)
	}

	created, updated, err := s.reconcile(ctx, rows)
	if err != nil {
		return nil, &ProcessingError{Op: "reconcile batch", Err: err}
	}
	result.Created = created
	result.Updated = updated

	log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", result.Errors).
		Int("deleted", result.Deleted).
		Msg("upload complete")

	return result, nil
}

// normalizeFile streams one file's rows through the normalizer,
// recording row errors on the result and returning the usable rows.
func (s *Service) normalizeFile(data []byte, result *model.UploadResult) ([]model.ClaimRow, error) {
	rdr, err := csvread.Open(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var rows []model.ClaimRow
	for {
		raw, rowNum, err := rdr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		row, err := normalize.Row(raw)
		if err != nil {
			result.AddErrorDetail(fmt.Sprintf("Row %d: %s", rowNum, err))
			continue
		}
		rows = append(rows, *row)
	}
}
