// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rescribe.xyz/autothresh"
	"rescribe.xyz/autothresh/internal/pipeline"
)

const usage = `Usage: getresults [-v] prefix [dir]

Downloads the results saved under prefix in the aws bucket into dir,
or into a directory named after prefix if dir isn't given.
`

func main() {
	verbose := flag.Bool("v", false, "Verbose")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	verboselog := autothresh.NewLogger(*verbose, os.Stdout)

	settings, err := autothresh.GetSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading settings")
	}
	conn := &autothresh.AwsConn{Region: settings.Region, Bucket: settings.Bucket, Logger: verboselog}

	conn.Log("Setting up AWS session")
	err = conn.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("Error setting up cloud connection")
	}
	conn.Log("Finished setting up AWS session")

	prefix := flag.Arg(0)
	dir := prefix
	if flag.NArg() > 1 {
		dir = flag.Arg(1)
	}

	done, err := pipeline.DownloadResults(context.Background(), dir, prefix, conn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to download results")
	}
	if len(done) == 0 {
		log.Fatal().Str("prefix", prefix).Msg("No results found")
	}
	conn.Log("Downloaded", len(done), "files")
}
