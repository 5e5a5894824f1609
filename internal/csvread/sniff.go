package csvread

import (
	"bytes"
	"strings"
)

// sniffSize is how much of the file the sniffer looks at.
const sniffSize = 1024

// candidates in fallback priority order.
var candidates = []rune{'|', ',', '\t', ';'}

// Sniff infers the field delimiter from a sample of the file (up to the
// first 1024 bytes). For each candidate it counts occurrences per
// sample line; a candidate whose count is non-zero and identical on
// every line is consistent, and the consistent candidate with the
// highest per-line count wins. Ties resolve in priority order (pipe
// before comma). If nothing is consistent — quoted commas, a single
// column, a truncated sample — fall back to pipe when the sample
// contains one, else comma.
func Sniff(sample []byte) rune {
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
	}

	lines := strings.Split(string(sample), "\n")
	// The sample may end mid-line; drop the partial tail unless it is
	// all we have.
	if len(lines) > 1 && !bytes.HasSuffix(sample, []byte("\n")) {
		lines = lines[:len(lines)-1]
	}
	var full []string
	for _, l := range lines {
		l = strings.TrimSuffix(l, "\r")
		if l != "" {
			full = append(full, l)
		}
	}

	best := rune(0)
	bestCount := 0
	for _, cand := range candidates {
		count := -1
		consistent := len(full) > 0
		for _, l := range full {
			n := strings.Count(l, string(cand))
			if n == 0 {
				consistent = false
				break
			}
			if count == -1 {
				count = n
			} else if n != count {
				consistent = false
				break
			}
		}
		if consistent && count > bestCount {
			best = cand
			bestCount = count
		}
	}
	if best != 0 {
		return best
	}

	if bytes.ContainsRune(sample, '|') {
		return '|'
	}
	return ','
}
