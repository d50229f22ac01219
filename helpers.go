package main

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

var escapeHTML = html.EscapeString

var supportedFormats = map[string]bool{"svg": true, "html": true, "png": true, "jpg": true, "jpeg": true}

// resolveFormat picks the export format: the explicit flag, else the
// output file extension, else svg.
func resolveFormat(format, outputPath string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" && outputPath != "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(outputPath)), ".")
	}
	if format == "" {
		format = "svg"
	}
	if !supportedFormats[format] {
		return "", fmt.Errorf("unsupported export format %q (svg, html, png, jpg/jpeg)", format)
	}
	return format, nil
}

// writeOutput writes data to path, or stdout when path is empty. A
// partially written file is removed.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		if removeErr := os.Remove(path); removeErr != nil && !os.IsNotExist(removeErr) {
			return fmt.Errorf("writing %q: %w (cleanup failed: %v)", path, err, removeErr)
		}
		return fmt.Errorf("writing %q: %w", path, err)
	}
	return nil
}
