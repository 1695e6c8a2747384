// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rescribe.xyz/autothresh"
	"rescribe.xyz/autothresh/internal/pipeline"
	"rescribe.xyz/autothresh/pixbuf"
	"rescribe.xyz/autothresh/preproc"
)

const usage = `Usage: histgraph image graph.png

Creates a graph of the intensity histogram of an image, with the
threshold found by each method marked on it.
`

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	buf, err := pixbuf.DecodeFile(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening image")
	}
	r, err := preproc.Process(buf, preproc.Yen)
	if err != nil {
		log.Fatal().Err(err).Msg("Error finding thresholds")
	}

	fn := flag.Arg(1)
	f, err := os.Create(fn)
	if err != nil {
		log.Fatal().Err(err).Str("file", fn).Msg("Error creating file")
	}
	defer f.Close()
	err = autothresh.Graph(r.Hist, pipeline.Marks(r), filepath.Base(flag.Arg(0)), f)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating graph")
	}
}
