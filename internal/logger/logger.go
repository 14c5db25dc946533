package logger

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color codes, disabled when stdout is not a terminal.
const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

func colorized() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func paint(color, s string) string {
	if !colorized() {
		return s
	}
	return color + s + reset
}

// Info logs a neutral message under a tag.
func Info(tag, msg string) {
	fmt.Printf("%s %s\n", paint(blue, "["+tag+"]"), msg)
}

// Success logs a positive outcome under a tag.
func Success(tag, msg string) {
	fmt.Printf("%s %s\n", paint(green, "["+tag+"] ✓"), msg)
}

// Warn logs a recoverable problem under a tag.
func Warn(tag, msg string) {
	fmt.Printf("%s %s\n", paint(yellow, "["+tag+"] !"), msg)
}

// Error logs a failure under a tag.
func Error(tag, msg string) {
	fmt.Printf("%s %s\n", paint(red, "["+tag+"] ✗"), msg)
}

// Banner prints the startup banner with the build version.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Println(paint(bold+green, "  Krishi Route - mandi profit optimizer"))
	fmt.Println(paint(green, "  version "+version))
	fmt.Println()
}

// Section prints a visual section divider.
func Section(title string) {
	fmt.Println()
	fmt.Println(paint(bold+cyan, "── "+title+" ──"))
}

// Stats prints an aligned key/value statistic line.
func Stats(key string, value int) {
	fmt.Printf("  %-18s %d\n", key, value)
}

// Server prints the listen address once the HTTP server is up.
func Server(addr string) {
	fmt.Printf("%s listening on %s\n", paint(green, "[Server] ✓"), paint(bold, "http://"+addr))
}
