package grid

import (
	"fmt"
	"strings"
)

// ShareText renders a clipboard-friendly summary of a solved grid:
// a header line plus one emoji row per grid row. Letters become filled
// squares and empty cells stay blank, so the shape is shared without
// spoiling the solution.
func ShareText(g Grid, date string, seconds int, hintUsed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gridword %s %s", date, formatDuration(seconds))
	if hintUsed {
		b.WriteString(" 💡")
	}
	b.WriteByte('\n')
	for _, row := range g {
		for _, cell := range row {
			if cell == "" {
				b.WriteString("⬜")
			} else {
				b.WriteString("🟩")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
