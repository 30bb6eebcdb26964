package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// IdentifierSequencer handles comparison and sequencing of workflow
// identifiers and heat numbers of the form PREFIX-123 or PREFIX123
type IdentifierSequencer struct {
	pattern *regexp.Regexp
}

// NewIdentifierSequencer creates a sequencer with the default pattern
func NewIdentifierSequencer() *IdentifierSequencer {
	// Matches identifiers like WF-001, HT12, FRG-2024-17 (prefix + trailing number)
	pattern := regexp.MustCompile(`^([A-Za-z][A-Za-z0-9-]*?)-?(\d+)$`)
	return &IdentifierSequencer{pattern: pattern}
}

// Compare compares two identifiers with numeric sorting of the trailing
// number. Returns -1 if id1 < id2, 0 if equal, 1 if id1 > id2.
func (s *IdentifierSequencer) Compare(id1, id2 string) int {
	if id1 == id2 {
		return 0
	}

	prefix1, num1, err1 := s.parse(id1)
	prefix2, num2, err2 := s.parse(id2)

	// Fall back to plain string comparison for free-form identifiers
	if err1 != nil || err2 != nil {
		return strings.Compare(id1, id2)
	}

	if prefix1 != prefix2 {
		return strings.Compare(prefix1, prefix2)
	}
	switch {
	case num1 < num2:
		return -1
	case num1 > num2:
		return 1
	default:
		return 0
	}
}

// Next suggests the identifier following the highest in the given set,
// preserving the prefix and zero padding of the highest member
func (s *IdentifierSequencer) Next(identifiers []string) (string, error) {
	if len(identifiers) == 0 {
		return "", fmt.Errorf("cannot sequence an empty identifier set")
	}

	highest := identifiers[0]
	for _, id := range identifiers[1:] {
		if s.Compare(id, highest) > 0 {
			highest = id
		}
	}

	matches := s.pattern.FindStringSubmatch(highest)
	if len(matches) != 3 {
		return "", fmt.Errorf("identifier %s has no numeric suffix to sequence", highest)
	}

	numStr := matches[2]
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return "", fmt.Errorf("invalid numeric portion in identifier %s: %v", highest, err)
	}

	nextNum := strconv.Itoa(num + 1)
	if len(nextNum) < len(numStr) {
		nextNum = strings.Repeat("0", len(numStr)-len(nextNum)) + nextNum
	}
	return highest[:len(highest)-len(numStr)] + nextNum, nil
}

// parse extracts the prefix and numeric suffix from an identifier
func (s *IdentifierSequencer) parse(identifier string) (string, int, error) {
	matches := s.pattern.FindStringSubmatch(identifier)
	if len(matches) != 3 {
		return "", 0, fmt.Errorf("invalid identifier format: %s", identifier)
	}

	num, err := strconv.Atoi(matches[2])
	if err != nil {
		return "", 0, fmt.Errorf("invalid numeric portion in identifier %s: %v", identifier, err)
	}

	return matches[1], num, nil
}
