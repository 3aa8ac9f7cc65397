// Package review implements the GitHub pull request review tools: mapping
// file lines to diff positions and posting or listing review comments
// through the GitHub API.
package review

import (
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRe = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// PositionIn maps a line number in the new version of a file to its
// position within the file's unified diff patch. The position counter
// covers context and added lines only and keeps counting across hunks.
// It returns false when the line is not part of the diff.
func PositionIn(patch string, line int) (int, bool) {
	position := 0
	newLine := 0
	inHunk := false

	for _, raw := range strings.Split(patch, "\n") {
		if strings.HasPrefix(raw, "@@") {
			m := hunkHeaderRe.FindStringSubmatch(raw)
			if m == nil {
				// Malformed header: stop attributing lines until the
				// next valid hunk.
				inHunk = false
				continue
			}
			newLine, _ = strconv.Atoi(m[1])
			inHunk = true
			continue
		}
		if !inHunk || raw == "" {
			continue
		}
		switch raw[0] {
		case ' ', '+':
			position++
			if newLine == line {
				return position, true
			}
			newLine++
		}
		// Removed lines and markers like "\ No newline at end of file"
		// exist only in the old version and advance nothing.
	}
	return 0, false
}
