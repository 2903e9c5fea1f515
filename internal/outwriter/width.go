// Package outwriter renders ranking results and weight tables as text, CSV,
// JSON or Parquet.
package outwriter

import (
	"os"

	"github.com/huangsam/reporank/internal/contract"
	"golang.org/x/term"
)

const (
	minNameWidth     = 15
	maxNameWidth     = 60
	fallbackTermSize = 80

	// urlHostWidth is the room a URL column needs beyond the name it ends with.
	urlHostWidth = 20
)

// GetMaxTableNameWidth returns how many columns the repository name may use
// in table output, given the terminal width and the enabled columns.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detected, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detected <= 0 {
			termWidth = fallbackTermSize
		} else {
			termWidth = detected
		}
	}

	baseWidth := 25 // Rank + Score + Label
	if cfg.Detail {
		baseWidth += 85 + urlHostWidth // Stars + Forks + Watchers + Issues + seven metric columns + URL host part
	}
	if cfg.Explain {
		baseWidth += 50 // Top factors + missing metrics
	}
	baseWidth += 20 // borders and padding

	available := termWidth - baseWidth
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
