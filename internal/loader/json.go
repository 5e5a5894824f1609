package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// loadJSON reads a JSON array of claim objects. Each element is
// type-detected independently: objects with patient_name are main
// records (the key may arrive as "id"), the rest are detail patches.
func loadJSON(ctx context.Context, st Store, log zerolog.Logger, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	res := &Result{}
	for i, item := range items {
		raw := stringifyItem(item)
		if _, ok := item["patient_name"]; ok {
			loadMainRow(ctx, st, log, raw, i+1, res)
		} else {
			loadDetailRow(ctx, st, log, raw, i+1, res)
		}
	}
	return res, nil
}

// stringifyItem coerces a decoded JSON object into the column→string
// form shared with the CSV path. Numbers keep their JSON text via
// json.Number-free formatting; nulls are treated as absent.
func stringifyItem(item map[string]any) map[string]string {
	raw := make(map[string]string, len(item))
	for k, v := range item {
		switch t := v.(type) {
		case nil:
			// absent
		case string:
			raw[k] = t
		case float64:
			raw[k] = trimFloat(t)
		case bool:
			if t {
				raw[k] = "true"
			} else {
				raw[k] = "false"
			}
		default:
			raw[k] = fmt.Sprintf("%v", t)
		}
	}
	return raw
}

// trimFloat formats a JSON number without a spurious exponent or
// trailing zeros, so "30001" stays "30001" when used as a key.
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}
