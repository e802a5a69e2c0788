package gate

import "fmt"

const (
	MsgAllFiles  = ">>> All files will be checked"
	MsgFileList  = ">>> The following files will be checked:"
	MsgNoChanges = ">>>>>> No formatting performed..."
	MsgModified  = ">>>>>> Formatting performed..."
	MsgFailure   = "Formatting applied, review and stage the changes before committing"
)

// ReportTargets prints the resolved targets in verbose mode.
func (g *Gate) ReportTargets(targets FileSet) {
	if !g.cfg.Verbose {
		return
	}

	if targets.All {
		fmt.Fprintln(g.out, MsgAllFiles)
		return
	}

	fmt.Fprintln(g.out, MsgFileList)
	for _, path := range targets.Paths {
		fmt.Fprintln(g.out, path)
	}
}

// ReportResult prints the final status line, plus the failure notice on
// stderr when files were modified.
func (g *Gate) ReportResult(result RunResult) {
	if result == Modified {
		fmt.Fprintln(g.out, MsgModified)
		fmt.Fprintln(g.errOut, MsgFailure)
		return
	}
	fmt.Fprintln(g.out, MsgNoChanges)
}
