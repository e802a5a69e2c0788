package gate

import "fmt"

// WholeTreeArg is how the whole-tree sentinel is passed to the formatter.
const WholeTreeArg = "."

// FileSet is the set of targets for one run: either the whole tree or an
// ordered list of paths.
type FileSet struct {
	All   bool
	Paths []string
}

// WholeTree returns the sentinel FileSet covering every file.
func WholeTree() FileSet {
	return FileSet{All: true}
}

// Empty reports whether there is nothing to format.
func (s FileSet) Empty() bool {
	return !s.All && len(s.Paths) == 0
}

// Args renders the set as formatter arguments.
func (s FileSet) Args() []string {
	if s.All {
		return []string{WholeTreeArg}
	}
	return s.Paths
}

func (s FileSet) String() string {
	switch {
	case s.All:
		return "all files"
	case len(s.Paths) == 1:
		return "1 file"
	default:
		return fmt.Sprintf("%d files", len(s.Paths))
	}
}

// RunResult is the outcome of a formatter run.
type RunResult int

const (
	NoChanges RunResult = iota
	Modified
)

func (r RunResult) String() string {
	if r == Modified {
		return "modified"
	}
	return "no changes"
}
