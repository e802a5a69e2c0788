package gate

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type fakeChanges struct {
	files []string
	err   error
	calls []string
}

func (f *fakeChanges) ChangedFiles(_ context.Context, baseRef string) ([]string, error) {
	f.calls = append(f.calls, baseRef)
	return f.files, f.err
}

type fakeFormatter struct {
	changed bool
	err     error
	calls   [][]string
}

func (f *fakeFormatter) Format(_ context.Context, paths []string) (bool, error) {
	f.calls = append(f.calls, append([]string(nil), paths...))
	return f.changed, f.err
}

func memFs(t *testing.T, paths ...string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	for _, path := range paths {
		require.NoError(t, afero.WriteFile(fs, path, []byte("x = 1\n"), 0o644))
	}
	return fs
}

func defaultConfig() Config {
	return Config{
		BaseRef:    "origin/master",
		Extensions: []string{".py"},
	}
}
