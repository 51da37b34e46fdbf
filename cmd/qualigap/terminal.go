package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colorGap paints negative gaps green and positive gaps red.
func colorGap(value string, seconds float64, colorize bool) string {
	if !colorize {
		return value
	}
	switch {
	case seconds < 0:
		return text.FgGreen.Sprint(value)
	case seconds > 0:
		return text.FgRed.Sprint(value)
	default:
		return value
	}
}
