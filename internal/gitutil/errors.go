package gitutil

import (
	"fmt"
	"strings"

	"github.com/samzong/fmtgate/internal/gitcmd"
)

// WrapGitError builds an error message that prefers git stderr output when present.
func WrapGitError(action string, result gitcmd.Result, err error) error {
	errMsg := result.StderrString(true)
	if errMsg != "" {
		// git prints multi-line hints; the first line names the problem.
		if first, _, found := strings.Cut(errMsg, "\n"); found {
			errMsg = first
		}
		return fmt.Errorf("%s: %s: %w", action, errMsg, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}
