package normalize

import (
	"strings"

	"github.com/gyeh/claimtrack/internal/model"
)

// Status canonicalizes a status value: trim, lowercase, internal spaces
// to underscores ("Under Review" → "under_review"). Empty input yields
// the default status. Values outside the known set are returned as-is;
// the store persists status as free text.
func Status(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.DefaultStatus
	}
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, " ", "_")
}
