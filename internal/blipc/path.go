package blipc

import (
	"os"
	"strings"
)

// FileOpener reads the bytes at a resolved filesystem path. The compiler
// calls it synchronously from loadSampleWave; file I/O itself stays a pluggable,
// externally-supplied concern (spec.md §1), while DefaultFileOpener
// provides the obvious os.ReadFile-backed implementation, grounded on the
// teacher's CompileProject reading its own source file the same way.
type FileOpener interface {
	Open(path string) ([]byte, error)
}

// DefaultFileOpener reads files straight off the local filesystem.
type DefaultFileOpener struct{}

func (DefaultFileOpener) Open(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// trimParentPartOfPath repeatedly strips leading "./" and "../" fragments
// from filename, matching BKCompilerTrimParentPartOfPath's loop (not a
// single strip).
func trimParentPartOfPath(filename string) string {
	for len(filename) > 0 {
		switch {
		case strings.HasPrefix(filename, "./"):
			filename = filename[2:]
		case strings.HasPrefix(filename, "../"):
			filename = filename[3:]
		default:
			return filename
		}
	}
	return filename
}

// resolveLoadPath lazily initializes loadPath from the current working
// directory on first use, then joins the trimmed filename onto it,
// mirroring BKCompilerMakeFilePath.
func resolveLoadPath(loadPath *string, filename string) (string, error) {
	filename = trimParentPartOfPath(filename)

	if *loadPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		*loadPath = cwd
	}

	return *loadPath + "/" + filename, nil
}
