// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autothresh

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// NewLogger returns a logger writing human readable lines to w if
// verbose is set, and otherwise a logger that discards everything
func NewLogger(verbose bool, w io.Writer) *zerolog.Logger {
	if !verbose {
		l := zerolog.Nop()
		return &l
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		With().
		Timestamp().
		Logger()
	return &l
}

// logln logs the arguments as an info message, formatting them as
// with fmt.Println
func logln(l *zerolog.Logger, v ...interface{}) {
	l.Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}
