// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// mkbucket sets up the S3 bucket that autothresh saves results to.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rescribe.xyz/autothresh"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) != 1 {
		log.Fatal().Msg("Usage: mkbucket\n\nSets up the bucket named in the settings file for results\n")
	}

	settings, err := autothresh.GetSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading settings")
	}

	conn := &autothresh.AwsConn{Region: settings.Region, Bucket: settings.Bucket, Logger: autothresh.NewLogger(true, os.Stdout)}
	err = conn.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up cloud connection")
	}

	err = conn.CreateBucket(conn.StorageId())
	if err != nil {
		log.Fatal().Err(err).Msg("Creating bucket failed")
	}
}
