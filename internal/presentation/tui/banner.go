package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the lectern banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{" _              _                  ", "#818cf8"},
		{"| | ___  ___ __| |_ ___ _ __ _ __  ", "#a78bfa"},
		{"| |/ _ \\/ __/ _` __/ _ \\ '__| '_ \\ ", "#c084fc"},
		{"| |  __/ (_| (_| ||  __/ |  | | | |", "#e879f9"},
		{"|_|\\___|\\___\\__,_\\__\\___|_|  |_| |_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
