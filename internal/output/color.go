package output

import (
	"io"
	"os"
)

// Color modes accepted by --color and the color key of pmc-config.yml.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ValidColorMode reports whether mode is one of the color modes.
func ValidColorMode(mode string) bool {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	}
	return false
}

// ResolveColorMode reports whether styled output should be used for a
// writer whose terminal status is isTTY. Anything but always or never
// follows the terminal.
func ResolveColorMode(mode string, isTTY bool) bool {
	switch mode {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return isTTY
	}
}

// IsTTY reports whether writer is a character device such as a terminal.
// Buffers, pipes and regular files are not.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
