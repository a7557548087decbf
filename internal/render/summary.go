package render

import (
	"fmt"
	"io"
)

const unknownError = "unknown error"

// Summary writes the console report of the latest cycle: counts, last sync,
// then every offline site with its error detail.
func Summary(w io.Writer, in Input) error {
	if in.Latest == nil {
		_, err := fmt.Fprintln(w, "No checks recorded.")
		return err
	}

	cycle := in.Latest
	online := cycle.Online()
	offline := cycle.Offline()

	lines := []string{
		"",
		"SUMMARY:",
		fmt.Sprintf("Online: %d", online),
		fmt.Sprintf("Offline: %d", len(offline)),
		fmt.Sprintf("Manual: %d", cycle.Stats.Manual),
		fmt.Sprintf("Panel: %d", cycle.Stats.WHM),
		fmt.Sprintf("Uptime: %d%%", in.Uptime),
		fmt.Sprintf("Last panel sync: %s", in.lastSyncText()),
	}

	if len(offline) > 0 {
		lines = append(lines, "", "OFFLINE SITES:")
		for _, r := range offline {
			detail := r.Error
			if detail == "" {
				detail = unknownError
			}
			lines = append(lines, fmt.Sprintf("  %s - %s", r.Name, detail))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
