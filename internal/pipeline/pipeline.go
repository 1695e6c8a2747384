// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// pipeline is a package used by the autothresh command, which
// handles the core functionality, using channels heavily to
// coordinate jobs. Note that it is considered an "internal" package,
// not intended for external use, and no guarantee is made of the
// stability of any interfaces provided.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"rescribe.xyz/autothresh"
	"rescribe.xyz/autothresh/pixbuf"
	"rescribe.xyz/autothresh/preproc"
)

type Lister interface {
	ListObjects(bucket string, prefix string) ([]string, error)
	Log(v ...interface{})
	StorageId() string
}

type Downloader interface {
	Download(bucket string, key string, fn string) error
	Log(v ...interface{})
	StorageId() string
}

type Uploader interface {
	Log(v ...interface{})
	Upload(bucket string, key string, path string) error
	StorageId() string
}

type Pipeliner interface {
	DeleteObjects(bucket string, keys []string) error
	Download(bucket string, key string, fn string) error
	GetLogger() *zerolog.Logger
	Init() error
	ListObjects(bucket string, prefix string) ([]string, error)
	Log(v ...interface{})
	Upload(bucket string, key string, path string) error
	StorageId() string
}

// NewConn creates an uninitialised connection of type conntype,
// either "local", storing results in dir, or "aws", using the
// region and bucket in settings
func NewConn(conntype string, dir string, settings autothresh.Settings, logger *zerolog.Logger) (Pipeliner, error) {
	switch conntype {
	case "local":
		return &autothresh.LocalConn{Dir: dir, Logger: logger}, nil
	case "aws":
		return &autothresh.AwsConn{Region: settings.Region, Bucket: settings.Bucket, Logger: logger}, nil
	}
	return nil, fmt.Errorf("Unknown connection type %q", conntype)
}

// Options controls how each image is thresholded and which extra
// outputs are created
type Options struct {
	Method preproc.Method
	Mode   preproc.GrayscaleMode
	Graph  bool
	PDF    bool
}

// Source is the image to process; either a local Path, or a Key in
// the storage of the connection
type Source struct {
	Path string
	Key  string
}

func (s Source) String() string {
	if s.Key != "" {
		return s.Key
	}
	return s.Path
}

// KeyExists reports whether key is an object in the storage of conn
func KeyExists(conn Lister, key string) (bool, error) {
	objs, err := conn.ListObjects(conn.StorageId(), key)
	if err != nil {
		return false, err
	}
	for _, o := range objs {
		if o == key {
			return true, nil
		}
	}
	return false, nil
}

// download reads file names from a channel and downloads them into
// dir, putting each successfully downloaded file name into the
// process channel. If an error occurs it is sent to the errc channel
// and the function returns early.
func download(ctx context.Context, dl chan string, process chan string, conn Downloader, dir string, errc chan error, logger *zerolog.Logger) {
	for key := range dl {
		select {
		case <-ctx.Done():
			for range dl {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- ctx.Err()
			close(process)
			return
		default:
		}
		fn := filepath.Join(dir, filepath.Base(key))
		logger.Info().Str("key", key).Msg("Downloading")
		err := conn.Download(conn.StorageId(), key, fn)
		if err != nil {
			for range dl {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- fmt.Errorf("Error downloading %s: %w", key, err)
			close(process)
			return
		}
		process <- fn
	}
	close(process)
}

// up reads file names from a channel and uploads them with
// the prefix/ prefix, removing the local copy of each file
// once it has been successfully uploaded. The done channel is
// then written to to signal completion. If an error occurs it
// is sent to the errc channel and the function returns early.
func up(ctx context.Context, c chan string, done chan bool, conn Uploader, prefix string, errc chan error, logger *zerolog.Logger) {
	for path := range c {
		select {
		case <-ctx.Done():
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- ctx.Err()
			return
		default:
		}
		key := filepath.Base(path)
		if prefix != "" {
			key = prefix + "/" + key
		}
		logger.Info().Str("key", key).Msg("Uploading")
		err := conn.Upload(conn.StorageId(), key, path)
		if err != nil {
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- fmt.Errorf("Error uploading %s: %w", key, err)
			return
		}
		err = os.Remove(path)
		if err != nil {
			for range c {
			} // consume the rest of the receiving channel so it isn't blocked
			errc <- err
			return
		}
	}

	done <- true
}

// baseName returns the file name of path without its extension
func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Threshold returns a stage which binarises each image path it
// receives, writing the results into dir and sending the path of
// each file written to the up channel. The result for each image is
// also sent to results, if it isn't nil. Input files are left in
// place. The up channel is always closed when the stage returns.
func Threshold(opts Options, dir string, results chan<- preproc.Result) func(context.Context, chan string, chan string, chan error, *zerolog.Logger) {
	return func(ctx context.Context, in chan string, up chan string, errc chan error, logger *zerolog.Logger) {
		defer close(up)
		for path := range in {
			select {
			case <-ctx.Done():
				for range in {
				} // consume the rest of the receiving channel so it isn't blocked
				errc <- ctx.Err()
				return
			default:
			}
			logger.Info().Str("path", path).Stringer("method", opts.Method).Msg("Thresholding")
			r, done, err := thresholdFile(path, dir, opts, logger)
			if err != nil {
				for _, p := range done {
					_ = os.Remove(p)
				}
				if results != nil && r.Thresholds != nil {
					select {
					case results <- r:
					default:
					}
				}
				for range in {
				} // consume the rest of the receiving channel so it isn't blocked
				errc <- err
				return
			}
			if results != nil {
				select {
				case results <- r:
				case <-ctx.Done():
					for range in {
					} // consume the rest of the receiving channel so it isn't blocked
					errc <- ctx.Err()
					return
				}
			}
			for _, p := range done {
				up <- p
			}
		}
	}
}

// thresholdFile processes a single image, returning the result and
// the paths of every file written, which are also returned if an
// error occurs so they can be cleaned up
func thresholdFile(path string, dir string, opts Options, logger *zerolog.Logger) (preproc.Result, []string, error) {
	var done []string

	buf, err := pixbuf.DecodeFile(path)
	if err != nil {
		return preproc.Result{}, done, err
	}
	r, err := preproc.ProcessMode(buf, opts.Method, opts.Mode)
	if err != nil {
		return r, done, fmt.Errorf("Error processing %s: %w", path, err)
	}
	for _, m := range preproc.Methods() {
		logger.Debug().Str("path", path).Stringer("method", m).Int("threshold", r.Thresholds[m]).Msg("Found threshold")
	}

	base := filepath.Join(dir, baseName(path))

	grayfn := base + autothresh.GraySuffix
	err = pixbuf.WritePNG(grayfn, r.Gray)
	if err != nil {
		return r, done, err
	}
	done = append(done, grayfn)

	binfn := base + autothresh.BinarySuffix
	err = pixbuf.WritePNG(binfn, r.Binary)
	if err != nil {
		return r, done, err
	}
	done = append(done, binfn)

	threshfn := base + autothresh.ThresholdsSuffix
	err = writeThresholds(threshfn, r)
	if err != nil {
		return r, done, err
	}
	done = append(done, threshfn)

	var graphfn string
	if opts.Graph {
		graphfn = base + autothresh.GraphSuffix
		logger.Info().Str("path", graphfn).Msg("Creating graph")
		err = writeGraph(graphfn, r, filepath.Base(path))
		if err != nil {
			return r, done, err
		}
		done = append(done, graphfn)
	}

	if opts.PDF {
		pdffn := base + autothresh.ReportSuffix
		logger.Info().Str("path", pdffn).Msg("Creating PDF")
		err = writeReport(pdffn, r, grayfn, binfn, graphfn)
		if err != nil {
			return r, done, err
		}
		done = append(done, pdffn)
	}

	return r, done, nil
}

// writeThresholds saves the threshold found by each method, one per
// line, separated from the method name by a tab
func writeThresholds(fn string, r preproc.Result) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("Error creating file %s: %w", fn, err)
	}
	defer f.Close()
	for _, m := range preproc.Methods() {
		_, err = fmt.Fprintf(f, "%s\t%d\n", m, r.Thresholds[m])
		if err != nil {
			return fmt.Errorf("Error writing thresholds file %s: %w", fn, err)
		}
	}
	return f.Close()
}

// Marks returns a graph mark for each threshold in a result
func Marks(r preproc.Result) []autothresh.Mark {
	var marks []autothresh.Mark
	for _, m := range preproc.Methods() {
		marks = append(marks, autothresh.Mark{Label: m.String(), Value: r.Thresholds[m]})
	}
	return marks
}

func writeGraph(fn string, r preproc.Result, title string) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("Error creating file %s: %w", fn, err)
	}
	defer f.Close()
	err = autothresh.Graph(r.Hist, Marks(r), title, f)
	if err != nil {
		return fmt.Errorf("Error rendering graph: %w", err)
	}
	return f.Close()
}

func writeReport(fn string, r preproc.Result, grayfn, binfn, graphfn string) error {
	var pdf autothresh.Report
	err := pdf.Setup()
	if err != nil {
		return fmt.Errorf("Failed to set up PDF: %w", err)
	}
	err = pdf.AddPage(grayfn, "Intensity image")
	if err != nil {
		return fmt.Errorf("Failed to add page %s to PDF: %w", grayfn, err)
	}
	err = pdf.AddPage(binfn, fmt.Sprintf("Binarised with %s threshold %d", r.Method, r.Threshold()))
	if err != nil {
		return fmt.Errorf("Failed to add page %s to PDF: %w", binfn, err)
	}
	if graphfn != "" {
		err = pdf.AddPage(graphfn, "Histogram")
		if err != nil {
			return fmt.Errorf("Failed to add page %s to PDF: %w", graphfn, err)
		}
	}
	err = pdf.Save(fn)
	if err != nil {
		return fmt.Errorf("Failed to save PDF %s: %w", fn, err)
	}
	return nil
}

// ProcessImage thresholds a single image, uploading the results
// with conn under prefix, and returns the result. The image is
// downloaded from storage first if src is a storage key. If the
// image was thresholded but saving the results failed, the result
// is returned along with the error.
func ProcessImage(ctx context.Context, src Source, conn Pipeliner, prefix string, opts Options) (preproc.Result, error) {
	if src.Path == "" && src.Key == "" {
		return preproc.Result{}, errors.New("No image to process")
	}

	d, err := os.MkdirTemp("", "autothresh")
	if err != nil {
		return preproc.Result{}, fmt.Errorf("Failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(d)

	dl := make(chan string)
	processc := make(chan string)
	upc := make(chan string)
	// buffered so no stage blocks sending once this function has
	// returned
	done := make(chan bool, 1)
	errc := make(chan error, 3)
	results := make(chan preproc.Result, 1)

	// these functions will do their jobs when their channels have data
	if src.Key != "" {
		go download(ctx, dl, processc, conn, d, errc, conn.GetLogger())
	}
	go Threshold(opts, d, results)(ctx, processc, upc, errc, conn.GetLogger())
	go up(ctx, upc, done, conn, prefix, errc, conn.GetLogger())

	if src.Key != "" {
		dl <- src.Key
		close(dl)
	} else {
		processc <- src.Path
		close(processc)
	}

	// wait for either the done or errc channels to be sent to
	select {
	case err = <-errc:
		return partial(results), err
	case <-ctx.Done():
		return preproc.Result{}, ctx.Err()
	case <-done:
	}

	// a failed stage still closes its output, so done can arrive
	// alongside an error
	select {
	case err = <-errc:
		return partial(results), err
	default:
	}

	select {
	case r := <-results:
		return r, nil
	default:
		return preproc.Result{}, fmt.Errorf("No result produced for %s", src)
	}
}

// partial returns the result already found by the threshold stage,
// if there is one
func partial(results chan preproc.Result) preproc.Result {
	select {
	case r := <-results:
		return r
	default:
		return preproc.Result{}
	}
}
