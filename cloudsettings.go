// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autothresh

// This file contains various cloud account specific stuff; change this if
// you want to use the cloud functionality on your own site. These can
// also be overridden with a settings file, see GetSettings.

const (
	defaultAwsRegion = "eu-west-2"
	defaultBucket    = "rescribeautothresh"
)

// Suffixes added to the base name of an input image to name each
// output
const (
	GraySuffix       = "_gray.png"
	BinarySuffix     = "_bin.png"
	ThresholdsSuffix = ".thresholds"
	GraphSuffix      = "_hist.png"
	ReportSuffix     = ".pdf"
)
