// Package grouping derives group membership and intra-group ordering from
// image file names and accumulates files into mosaic groups.
package grouping

import (
	"regexp"
	"strconv"
	"strings"
)

// Order key pattern: a literal '-' followed by digits followed by a literal '.'
// Example: A1-3.png -> 3
var orderKeyPattern = regexp.MustCompile(`-(\d+)\.`)

// GroupKey returns the grouping key for a file name: the substring before
// the first '-', or the whole name when no separator is present. Every name
// produces a key; collisions are the grouping mechanism, not an error.
func GroupKey(name string) string {
	key, _, _ := strings.Cut(name, "-")
	return key
}

// OrderKey returns the integer from the last '-<digits>.' token in the name,
// or 0 when the token is absent or unparsable. The zero default is
// deliberate: files without a numeric suffix keep their input order through
// the stable sort downstream.
func OrderKey(name string) int {
	matches := orderKeyPattern.FindAllStringSubmatch(name, -1)
	if len(matches) == 0 {
		return 0
	}
	n, err := strconv.Atoi(matches[len(matches)-1][1])
	if err != nil {
		return 0
	}
	return n
}
