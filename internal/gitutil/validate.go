package gitutil

import (
	"errors"
	"fmt"
	"strings"
)

// ValidateRef rejects base references that git would misread as an option or
// that cannot name a revision.
func ValidateRef(ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errors.New("base reference cannot be empty")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("base reference cannot start with '-': %s", ref)
	}
	if strings.Contains(ref, "..") {
		return fmt.Errorf("base reference cannot contain '..': %s", ref)
	}
	for _, ch := range []string{" ", "~~", ":", "?", "*", "[", "\\"} {
		if strings.Contains(ref, ch) {
			return fmt.Errorf("base reference contains invalid character %q: %s", ch, ref)
		}
	}
	return nil
}
