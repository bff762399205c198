package internal

import "testing"

// runsOf unpacks a 17-bit module pattern into its bar/space run widths.
func runsOf(pattern int) []int {
	var runs []int
	last := pattern >> (ModulesInCodeword - 1) & 1
	count := 0
	for i := ModulesInCodeword - 1; i >= 0; i-- {
		bit := pattern >> uint(i) & 1
		if bit == last {
			count++
			continue
		}
		runs = append(runs, count)
		last = bit
		count = 1
	}
	return append(runs, count)
}

func TestSymbolPatternsWellFormed(t *testing.T) {
	for cluster := 0; cluster < 3; cluster++ {
		for value := 0; value < NumCodewords; value++ {
			p := SymbolPatterns[cluster][value]
			if p>>(ModulesInCodeword-1)&1 != 1 || p&1 != 0 {
				t.Fatalf("cluster %d value %d: pattern %017b must start with a bar and end with a space", cluster, value, p)
			}
			runs := runsOf(p)
			if len(runs) != BarsInCodeword {
				t.Fatalf("cluster %d value %d: %d runs, want %d", cluster, value, len(runs), BarsInCodeword)
			}
			total := 0
			for _, r := range runs {
				if r < 1 || r > 6 {
					t.Fatalf("cluster %d value %d: run width %d out of range", cluster, value, r)
				}
				total += r
			}
			if total != ModulesInCodeword {
				t.Fatalf("cluster %d value %d: %d modules, want %d", cluster, value, total, ModulesInCodeword)
			}
			if k := (runs[0] - runs[2] + runs[4] - runs[6] + 9) % 9; k != cluster*3 {
				t.Fatalf("cluster %d value %d: cluster equation yields %d", cluster, value, k)
			}
		}
	}
}

func TestSymbolPatternsSorted(t *testing.T) {
	for cluster := 0; cluster < 3; cluster++ {
		for value := 1; value < NumCodewords; value++ {
			if SymbolPatterns[cluster][value] <= SymbolPatterns[cluster][value-1] {
				t.Fatalf("cluster %d: patterns not strictly ascending at value %d", cluster, value)
			}
		}
	}
}

func TestCodewordValueRoundTrip(t *testing.T) {
	for cluster := 0; cluster < 3; cluster++ {
		for value := 0; value < NumCodewords; value++ {
			if got := CodewordValue(SymbolPatterns[cluster][value]); got != value {
				t.Fatalf("cluster %d: CodewordValue(patterns[%d]) = %d", cluster, value, got)
			}
		}
	}
}

func TestCodewordValueInvalid(t *testing.T) {
	if CodewordValue(0) != -1 {
		t.Error("all-space pattern should not be a codeword")
	}
	if CodewordValue(1<<ModulesInCodeword-1) != -1 {
		t.Error("all-bar pattern should not be a codeword")
	}
}
