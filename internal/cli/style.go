package cli

import (
	"os"
	"runtime"

	"golang.org/x/term"
)

// useColor is process-wide read-only state, computed once at startup.
var useColor = supportsColor()

// supportsColor checks NO_COLOR/FORCE_COLOR, then terminal capability.
// On Windows only the modern terminal is trusted.
func supportsColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("WT_SESSION") != ""
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func style(text, code string) string {
	if !useColor {
		return text
	}
	return "\033[" + code + "m" + text + "\033[0m"
}

func green(s string) string  { return style(s, "32") }
func yellow(s string) string { return style(s, "33") }
func blue(s string) string   { return style(s, "34") }
func dim(s string) string    { return style(s, "2") }
func bold(s string) string   { return style(s, "1") }
func redBold(s string) string { return style(s, "31;1") }
