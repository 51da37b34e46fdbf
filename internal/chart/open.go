package chart

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/browser"

	"qualigap/internal/textutil"
)

// openFile is swapped in tests so no viewer is launched.
var openFile = browser.OpenFile

// Open hands the rendered chart to the desktop's default viewer.
func Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve chart path: %w", err)
	}
	if err := openFile(abs); err != nil {
		return fmt.Errorf("open chart viewer: %w", err)
	}
	return nil
}

// FileName returns the default chart file name for a driver and season
// window, e.g. "charles_leclerc_2022-2024.png".
func FileName(driver string, startYear, endYear int) string {
	return fmt.Sprintf("%s_%d-%d.png", textutil.SanitizeToken(driver), startYear, endYear)
}
