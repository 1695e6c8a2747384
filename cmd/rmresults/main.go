// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// rmresults removes saved results from storage.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rescribe.xyz/autothresh"
	"rescribe.xyz/autothresh/internal/pipeline"
)

const usage = `Usage: rmresults [-c local|aws] [-o dir] prefix

Removes all results saved under prefix from storage. Images which
were processed from storage are left in place.
`

func main() {
	conntype := flag.String("c", "aws", "connection type ('local' or 'aws')")
	outdir := flag.String("o", ".", "directory results were saved to with the local connection")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	settings, err := autothresh.GetSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading settings")
	}
	conn, err := pipeline.NewConn(*conntype, *outdir, settings, autothresh.NewLogger(false, os.Stdout))
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating connection")
	}

	fmt.Println("Setting up connection")
	err = conn.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("Error setting up connection")
	}

	prefix := flag.Arg(0)

	fmt.Println("Getting list of results")
	objs, err := conn.ListObjects(conn.StorageId(), prefix)
	if err != nil {
		log.Fatal().Err(err).Msg("Error in listing results")
	}

	var results []string
	for _, o := range objs {
		if pipeline.IsResult(o) {
			results = append(results, o)
		}
	}
	if len(results) == 0 {
		log.Fatal().Str("prefix", prefix).Msg("No results found")
	}

	fmt.Println("Deleting", len(results), "results")
	err = conn.DeleteObjects(conn.StorageId(), results)
	if err != nil {
		log.Fatal().Err(err).Msg("Error deleting results")
	}

	fmt.Println("Finished deleting results")
}
