// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// autothresh binarises an image using a threshold found
// automatically from its histogram, saving the results locally or
// to an S3 bucket.
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
	"rescribe.xyz/autothresh/preproc"
)

const usage = `Usage: autothresh [-v] [-c local|aws] [-o dir] [-p prefix] [-m method] [-graph] [-pdf] [-k] image

Converts an image to gray, finds a binarisation threshold for it with
each of the mean, otsu and yen methods, and binarises it with one of
them. The thresholds are printed one per line, and the gray image,
binarised image and thresholds are saved with the chosen connection.

With -k the image is taken from the storage of the connection rather
than the local filesystem.

The aws connection uses the region and bucket in the settings file
(~/.config/autothresh/settings) unless -region or -bucket are set.

`

func main() {
	verbose := flag.Bool("v", false, "verbose")
	conntype := flag.String("c", "local", "connection type ('local' or 'aws')")
	outdir := flag.String("o", ".", "directory to save results to with the local connection")
	prefix := flag.String("p", "", "prefix to add to the name of each result saved")
	method := flag.String("m", "yen", "threshold method to binarise with ('mean', 'otsu' or 'yen')")
	graph := flag.Bool("graph", false, "also save a graph of the histogram")
	pdf := flag.Bool("pdf", false, "also save a PDF of the results")
	legacy := flag.Bool("legacy", false, "use the legacy channel offsets when converting to gray")
	key := flag.Bool("k", false, "image is a key in the storage of the connection")
	region := flag.String("region", "", "aws region to use, overriding the settings file")
	bucket := flag.String("bucket", "", "aws bucket to use, overriding the settings file")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	verboselog := autothresh.NewLogger(*verbose, os.Stdout)
	ctx := context.Background()

	m, err := preproc.ParseMethod(*method)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid method")
	}
	opts := pipeline.Options{Method: m, Graph: *graph, PDF: *pdf}
	if *legacy {
		opts.Mode = preproc.LegacyOffset
	}

	settings, err := autothresh.GetSettings()
	if err != nil {
		log.Fatal().Err(err).Msg("Error reading settings")
	}
	if *region != "" {
		settings.Region = *region
	}
	if *bucket != "" {
		settings.Bucket = *bucket
	}
	conn, err := pipeline.NewConn(*conntype, *outdir, settings, verboselog)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating connection")
	}

	conn.Log("Setting up connection")
	err = conn.Init()
	if err != nil {
		log.Fatal().Err(err).Msg("Error setting up connection")
	}

	path := flag.Arg(0)
	var src pipeline.Source
	if *key {
		found, err := pipeline.KeyExists(conn, path)
		if err != nil {
			log.Fatal().Err(err).Msg("Error checking storage")
		}
		if !found {
			fmt.Println("Path not found:", path)
			return
		}
		src.Key = path
	} else {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			fmt.Println("Path not found:", path)
			return
		}
		err = pipeline.CheckImage(ctx, path)
		if err != nil {
			log.Fatal().Err(err).Msg("Error with image")
		}
		src.Path = path
	}

	conn.Log("Processing", src)
	r, err := pipeline.ProcessImage(ctx, src, conn, *prefix, opts)
	// thresholds are printed even if saving the results failed
	if r.Thresholds != nil {
		for _, m := range preproc.Methods() {
			fmt.Printf("%s\t%d\n", m, r.Thresholds[m])
		}
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Error processing image")
	}
	conn.Log("Binarised with", r.Method, "threshold", r.Threshold())
}
