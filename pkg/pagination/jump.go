package pagination

import (
	"strconv"
	"strings"
)

// ValidateJump parses user input from a jump-to-page field. It returns the
// 1-based page and true when raw is an integer within [1, pageCount].
// Anything else is rejected without an error.
func ValidateJump(raw string, pageCount int) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}

	if n < 1 || n > pageCount {
		return 0, false
	}

	return n, true
}
