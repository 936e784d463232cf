package errors

import (
	"regexp"
	"strconv"
	"strings"
)

// digestRegex matches lowercase hex digests from 64-bit xxhash up to SHA-512.
var digestRegex = regexp.MustCompile(`^[0-9a-f]{16,128}$`)

// ValidateDigest checks that s looks like a position digest.
func ValidateDigest(s string) error {
	if s == "" {
		return New(ErrCodeInvalidDigest, "digest cannot be empty")
	}
	if !digestRegex.MatchString(s) {
		return New(ErrCodeInvalidDigest, "invalid digest: %q", s)
	}
	return nil
}

// ParseMoves parses a comma-separated list of column numbers such as
// "0,1,2". An empty string yields no moves.
func ParseMoves(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	moves := make([]int, 0, len(parts))
	for _, p := range parts {
		col, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, New(ErrCodeInvalidMove, "invalid column %q", p)
		}
		if col < 0 {
			return nil, New(ErrCodeInvalidMove, "negative column %d", col)
		}
		moves = append(moves, col)
	}
	return moves, nil
}

// ValidateShape checks grid dimensions and run length against the
// configured maxima.
func ValidateShape(rows, cols, runLength, maxRows, maxCols int) error {
	if rows < 1 || cols < 1 {
		return New(ErrCodeInvalidInput, "grid must have at least one row and column, got %dx%d", rows, cols)
	}
	if rows > maxRows || cols > maxCols {
		return New(ErrCodeInvalidInput, "grid %dx%d exceeds the configured maximum %dx%d", rows, cols, maxRows, maxCols)
	}
	if runLength < 1 {
		return New(ErrCodeInvalidInput, "run length must be positive, got %d", runLength)
	}
	return nil
}
