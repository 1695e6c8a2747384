// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The autothresh package contains tools and functions to binarise images
using a single global threshold which is found automatically from the
intensity histogram of the image.

Introduction

Binarisation turns an image into pure black and white, which is an
important first step before OCR or other analysis of scanned pages.
autothresh converts an image to gray, counts how many pixels there are
at each intensity level, and uses that histogram to choose a threshold.
Every pixel brighter than the threshold becomes white, and everything
else becomes black.

Presuming you have the go tools installed, you can install the tools
with this command:
  go install rescribe.xyz/autothresh/cmd/...

All of the tools will give information on what they do and how they
work with the '-h' flag, for example:
  autothresh -h

Threshold methods

Three methods of finding the threshold are provided by the preproc
package:

  mean  The mean intensity of the image.
  otsu  The threshold maximising the variance between the black and
        white classes, from N. Otsu, "A threshold selection method from
        gray-level histograms" (1979).
  yen   The threshold maximising an entropic correlation criterion, from
        J.C. Yen, F.J. Chang and S. Chang, "A new criterion for automatic
        multilevel thresholding" (1995).

The autothresh tool reports all three, and binarises with the yen
threshold unless another is chosen with the -m flag:
  autothresh -v page.jpg

Storing results

Results are saved using a connection, either LocalConn, which writes
to a local directory, or AwsConn, which stores them in an S3 bucket.
The bucket and region used by AwsConn are read from the settings file
~/.config/autothresh/settings, which should contain the region and the
bucket name separated by a space. Set up ~/.aws/credentials
appropriately to use it.

For each input image, named for example page.jpg, these files are
saved:

  page_gray.png    The intensity image.
  page_bin.png     The binarised image.
  page.thresholds  The threshold found by each method, one per line.
  page_hist.png    A graph of the histogram, if -graph is set.
  page.pdf         A PDF of the intensity and binary images, if -pdf
                   is set.

The histgraph tool just creates the histogram graph of an image, with
each threshold marked on it:
  histgraph page.jpg graph.png

Results saved under a prefix with -p can be managed with the
getresults tool, which downloads them from the S3 bucket, and the
rmresults tool, which deletes them. mkbucket creates the bucket named
in the settings file.
*/
package autothresh
