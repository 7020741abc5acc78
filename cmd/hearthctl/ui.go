package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printHeader(w io.Writer, msg string) {
	accent.Fprintln(w, msg)
}

func printSuccess(w io.Writer, msg string) {
	success.Fprintln(w, msg)
}

func printWarn(w io.Writer, msg string) {
	warn.Fprintln(w, msg)
}

func printInfo(w io.Writer, format string, args ...any) {
	neutral.Fprintln(w, fmt.Sprintf(format, args...))
}

func statusLabel(applied bool) string {
	if applied {
		return success.Sprint("applied")
	}
	return danger.Sprint("pending")
}
