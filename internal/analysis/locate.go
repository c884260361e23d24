package analysis

import "math"

// FindInnermostBlock returns the index of the block with the smallest line
// extent that contains line, or -1.
//
// Blocks are scanned in stored order. Once a containing block is found, every
// later block that does not contain line counts as a miss, and the scan stops
// after suppress misses. suppress <= 0 is treated as unbounded.
func FindInnermostBlock(blocks []BlockLine, line, suppress int) int {
	if suppress <= 0 {
		suppress = math.MaxInt
	}
	found := -1
	minLines := math.MaxInt
	misses := 0
	for i, b := range blocks {
		if !b.Valid() {
			continue
		}
		if b.Contains(line) {
			if n := b.Lines(); n < minLines {
				minLines = n
				found = i
			}
			continue
		}
		if found >= 0 {
			misses++
			if misses >= suppress {
				break
			}
		}
	}
	return found
}

// InnermostBlock applies FindInnermostBlock with the result's suppress switch.
func (r *Result) InnermostBlock(line int) int {
	return FindInnermostBlock(r.blocks, line, r.suppressSwitch)
}
