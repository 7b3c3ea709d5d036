// Package source provides file-backed graph sources in the KGX exchange
// formats. JSONLines reads one JSON object per line, TSV reads header-driven
// tab-separated files. Both satisfy graph.Source and surface malformed input
// as classified invalid errors.
package source

import (
	"bufio"
	"context"
	"os"
	"strings"

	kgerrors "github.com/c360/kgstat/errors"
)

const componentName = "source"

// maxRecordBytes bounds a single input line. Node records with large synonym
// or xref lists run long, so the scanner buffer is raised well past the
// bufio default.
const maxRecordBytes = 16 << 20

// scanLines opens path and invokes fn once per non-blank line, stopping at
// the first error. Line numbers are 1-based and count blank lines too, so
// they match what an editor shows.
func scanLines(ctx context.Context, path, method string, fn func(lineNum int, line string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return kgerrors.Wrap(err, componentName, method, "open "+path)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), maxRecordBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNum, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return kgerrors.Wrap(err, componentName, method, "scan "+path)
	}
	return nil
}
