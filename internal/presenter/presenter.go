package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spigell/investor-matcher/internal/ai"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	rankStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	strongScore = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mediumScore = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	weakScore   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// Render writes the ranked listing for one founder. found is the total count
// of successfully scored pairs, of which ranked holds the top slice.
func Render(w io.Writer, founderLabel string, ranked []*ai.MatchResult, found int) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Top investor matches for %s", founderLabel)))

	if len(ranked) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No suitable investor matches found."))
		return
	}

	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Found %d potential matches. Displaying top %d.", found, len(ranked))))
	fmt.Fprintln(w)

	for i, result := range ranked {
		fmt.Fprintf(w, "%s %s %s\n",
			rankStyle.Render(fmt.Sprintf("#%d", i+1)),
			fmt.Sprintf("%s (%s)", result.InvestorName, result.InvestorID),
			scoreStyle(result.Score).Render(fmt.Sprintf("%d/100", result.Score)),
		)
		if result.Reasoning != "" {
			fmt.Fprintf(w, "   %s\n", result.Reasoning)
		}
		fmt.Fprintln(w)
	}
}

func scoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 70:
		return strongScore
	case score >= 50:
		return mediumScore
	default:
		return weakScore
	}
}

// DumpToTmpFile writes all results, ok and failed alike, to a temp JSON file
// and returns its name.
func DumpToTmpFile(results []*ai.MatchResult) (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return "", err
	}
	return file.Name(), nil
}
