package csvparser

import "strings"

// sniffSampleSize is how many non-empty lines DetectDelimiter inspects.
const sniffSampleSize = 10

// candidates are the only separators the exports use, in preference order.
var candidates = []rune{',', '\t'}

// DetectDelimiter decides whether lines are comma- or tab-separated.
//
// It first looks for a candidate that occurs the same, non-zero number of
// times (outside quoted fields) on every sampled line. If exactly one
// candidate is consistent, or one consistent candidate occurs more often than
// the other, that candidate wins. Otherwise the first sampled line decides:
// comma when it has at least as many commas as tabs, tab otherwise.
// Empty input yields a comma. The result is always ',' or '\t'.
func DetectDelimiter(lines []string) rune {
	sample := make([]string, 0, sniffSampleSize)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample = append(sample, line)
		if len(sample) == sniffSampleSize {
			break
		}
	}

	if len(sample) == 0 {
		return ','
	}

	best, bestCount := rune(0), 0
	tie := false
	for _, c := range candidates {
		count, ok := consistentCount(sample, c)
		if !ok {
			continue
		}
		switch {
		case count > bestCount:
			best, bestCount, tie = c, count, false
		case count == bestCount:
			tie = true
		}
	}
	if best != 0 && !tie {
		return best
	}

	first := sample[0]
	if strings.Count(first, ",") >= strings.Count(first, "\t") {
		return ','
	}
	return '\t'
}

// consistentCount returns the per-line count of c when every line in sample
// has the same non-zero count.
func consistentCount(sample []string, c rune) (int, bool) {
	want := -1
	for _, line := range sample {
		n := countUnquoted(line, c)
		if n == 0 {
			return 0, false
		}
		if want >= 0 && n != want {
			return 0, false
		}
		want = n
	}
	return want, true
}

// countUnquoted counts occurrences of c that are not inside a double-quoted
// field.
func countUnquoted(line string, c rune) int {
	n := 0
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == c && !quoted:
			n++
		}
	}
	return n
}
