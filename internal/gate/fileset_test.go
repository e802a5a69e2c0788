package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileSet(t *testing.T) {
	tests := []struct {
		name  string
		set   FileSet
		empty bool
		args  []string
		str   string
	}{
		{"whole tree", WholeTree(), false, []string{"."}, "all files"},
		{"nothing", FileSet{}, true, nil, "0 files"},
		{"one", FileSet{Paths: []string{"a.py"}}, false, []string{"a.py"}, "1 file"},
		{"two", FileSet{Paths: []string{"a.py", "b.py"}}, false, []string{"a.py", "b.py"}, "2 files"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.empty, tt.set.Empty())
			assert.Equal(t, tt.args, tt.set.Args())
			assert.Equal(t, tt.str, tt.set.String())
		})
	}
}

func TestRunResult_String(t *testing.T) {
	assert.Equal(t, "no changes", NoChanges.String())
	assert.Equal(t, "modified", Modified.String())
}
