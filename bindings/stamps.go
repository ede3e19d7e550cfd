package bindings

import (
	"fmt"
	"os"
	"strings"
)

// LoadStamps reads workspace status files and merges them
// into a single map. Each line is "KEY VALUE" split at the
// first space; lines without a space are skipped. CRLF
// line endings are accepted. Later files override earlier
// ones.
func LoadStamps(infoFiles []string) (Bindings, error) {
	const errCtx = "loading stamps"

	stamps := make(Bindings)

	for _, sf := range infoFiles {
		content, err := os.ReadFile(sf) //nolint:gosec // paths from CLI flags
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		for _, line := range strings.Split(string(content), "\n") {
			line = strings.TrimRight(line, "\r")

			key, val, ok := strings.Cut(line, " ")
			if ok {
				stamps[key] = val
			}
		}
	}

	return stamps, nil
}
