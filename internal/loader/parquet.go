package loader

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"

	"github.com/gyeh/claimtrack/internal/model"
)

const parquetReadBatch = 256

// loadParquet streams ClaimParquetRow records and feeds them through
// the same per-row path as a CSV main file.
func loadParquet(ctx context.Context, st Store, log zerolog.Logger, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[model.ClaimParquetRow](pf)
	defer reader.Close()

	log.Info().Str("file", path).Int64("rows", reader.NumRows()).Msg("processing parquet claims file")

	res := &Result{}
	buf := make([]model.ClaimParquetRow, parquetReadBatch)
	rowNum := 0
	for {
		n, readErr := reader.Read(buf)
		for i := 0; i < n; i++ {
			rowNum++
			loadMainRow(ctx, st, log, buf[i].RawRow(), rowNum, res)
		}
		if readErr == io.EOF {
			return res, nil
		}
		if readErr != nil {
			return nil, fmt.Errorf("read parquet at row %d: %w", rowNum, readErr)
		}
	}
}
