// Package productcode derives short product codes from product names and
// resolves them against the set of codes already stored.
package productcode

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
)

// prefixLen is the number of hex characters kept from the name digest.
const prefixLen = 7

// run is a maximal strictly increasing substring of the cleaned name.
// start and end are inclusive indices into the cleaned name.
type run struct {
	text  string
	start int
	end   int
}

// Generate returns the base product code for a name. The result is
// deterministic and always non-empty.
//
// Format: "{prefix}-{start}{runs}{end}", where prefix is the first 7 hex
// characters of md5(lower(name)) and runs are the longest strictly increasing
// letter sequences of the name. Names without such a sequence get
// "{prefix}-0{c}0", c being the first letter or 'x' when there is none.
func Generate(name string) string {
	lower := strings.ToLower(name)
	prefix := hashPrefix(lower)
	cleaned := cleanName(lower)

	runs := increasingRuns(cleaned)
	if len(runs) == 0 {
		fallback := byte('x')
		if len(cleaned) > 0 {
			fallback = cleaned[0]
		}
		return prefix + "-0" + string(fallback) + "0"
	}

	longest := longestRuns(runs)

	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('-')
	sb.WriteString(strconv.Itoa(longest[0].start))
	for _, r := range longest {
		sb.WriteString(r.text)
	}
	sb.WriteString(strconv.Itoa(longest[len(longest)-1].end))
	return sb.String()
}

func hashPrefix(lower string) string {
	sum := md5.Sum([]byte(lower))
	return hex.EncodeToString(sum[:])[:prefixLen]
}

// cleanName keeps only the ASCII letters a-z of an already lowercased name.
func cleanName(lower string) string {
	var sb strings.Builder
	for i := 0; i < len(lower); i++ {
		if c := lower[i]; c >= 'a' && c <= 'z' {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// increasingRuns scans s left to right and returns every maximal run of
// strictly increasing bytes with length >= 2, in scan order.
func increasingRuns(s string) []run {
	var runs []run
	start := 0
	for i := 1; i <= len(s); i++ {
		if i < len(s) && s[i] > s[i-1] {
			continue
		}
		if i-start >= 2 {
			runs = append(runs, run{text: s[start:i], start: start, end: i - 1})
		}
		start = i
	}
	return runs
}

// longestRuns returns every run whose length equals the maximum, keeping
// scan order.
func longestRuns(runs []run) []run {
	maxLen := 0
	for _, r := range runs {
		if len(r.text) > maxLen {
			maxLen = len(r.text)
		}
	}
	var out []run
	for _, r := range runs {
		if len(r.text) == maxLen {
			out = append(out, r)
		}
	}
	return out
}
