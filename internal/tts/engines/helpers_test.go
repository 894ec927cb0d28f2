package engines

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/charmbracelet/log"
)

// stubPath replaces PATH with a directory holding only the given shell
// scripts.
func stubPath(t *testing.T, scripts map[string]string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs need a POSIX shell")
	}
	dir := t.TempDir()
	// Stubs only need cat and sleep besides shell builtins.
	for _, tool := range []string{"cat", "sleep"} {
		if path, err := exec.LookPath(tool); err == nil {
			if err := os.Symlink(path, filepath.Join(dir, tool)); err != nil {
				t.Fatal(err)
			}
		}
	}
	for name, body := range scripts {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil { //nolint:gosec
			t.Fatal(err)
		}
	}
	t.Setenv("PATH", dir)
	return dir
}

// writeAfter is a stub body that saves stdin next to the file named by
// flag and writes payload to it.
func writeAfter(flag, payload string) string {
	return `out=""
while [ $# -gt 0 ]; do
  case "$1" in ` + flag + `) shift; out="$1";; esac
  shift
done
cat > "$out.stdin"
printf '` + payload + `' > "$out"
`
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
