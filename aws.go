// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package autothresh

import (
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/rs/zerolog"
)

// AwsConn stores images and results in an S3 bucket. It has the
// same methods as LocalConn, so the two can be swapped freely.
type AwsConn struct {
	// these should be set before running Init(), or left to defaults
	Region string
	Bucket string
	Logger *zerolog.Logger

	sess       *session.Session
	s3svc      *s3.S3
	downloader *s3manager.Downloader
	uploader   *s3manager.Uploader
}

// Init sets up the aws session and S3 clients
func (a *AwsConn) Init() error {
	if a.Region == "" {
		a.Region = defaultAwsRegion
	}
	if a.Bucket == "" {
		a.Bucket = defaultBucket
	}
	if a.Logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		a.Logger = &l
	}

	var err error
	a.sess, err = session.NewSession(&aws.Config{
		Region: aws.String(a.Region),
	})
	if err != nil {
		return fmt.Errorf("Failed to set up aws session: %w", err)
	}
	a.s3svc = s3.New(a.sess)
	a.downloader = s3manager.NewDownloader(a.sess)
	a.uploader = s3manager.NewUploader(a.sess)

	return nil
}

// StorageId returns the bucket results are stored in
func (a *AwsConn) StorageId() string {
	return a.Bucket
}

func (a *AwsConn) ListObjects(bucket string, prefix string) ([]string, error) {
	var names []string
	err := a.s3svc.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, last bool) bool {
		for _, r := range page.Contents {
			names = append(names, *r.Key)
		}
		return true
	})
	return names, err
}

// maxDeleteKeys is the most keys S3 accepts in one DeleteObjects call
const maxDeleteKeys = 1000

// chunk splits keys into consecutive groups of at most n
func chunk(keys []string, n int) [][]string {
	var chunks [][]string
	for len(keys) > n {
		chunks = append(chunks, keys[:n])
		keys = keys[n:]
	}
	if len(keys) > 0 {
		chunks = append(chunks, keys)
	}
	return chunks
}

// DeleteObjects deletes a list of objects, in as many requests as
// are needed
func (a *AwsConn) DeleteObjects(bucket string, keys []string) error {
	for _, c := range chunk(keys, maxDeleteKeys) {
		objs := []*s3.ObjectIdentifier{}
		for _, v := range c {
			objs = append(objs, &s3.ObjectIdentifier{Key: aws.String(v)})
		}
		_, err := a.s3svc.DeleteObjects(&s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &s3.Delete{
				Objects: objs,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return fmt.Errorf("Error deleting objects from %s: %w", bucket, err)
		}
	}
	return nil
}

// CreateBucket creates a new S3 bucket, doing nothing if it already
// exists
func (a *AwsConn) CreateBucket(name string) error {
	_, err := a.s3svc.CreateBucket(&s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeBucketAlreadyExists || aerr.Code() == s3.ErrCodeBucketAlreadyOwnedByYou) {
			a.Log("Bucket already exists:", name)
			return nil
		}
		return fmt.Errorf("Error creating bucket %s: %w", name, err)
	}
	return nil
}

func (a *AwsConn) Download(bucket string, key string, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = a.downloader.Download(f,
		&s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    &key,
		})
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

func (a *AwsConn) Upload(bucket string, key string, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = a.uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   file,
	})
	return err
}

func (a *AwsConn) GetLogger() *zerolog.Logger {
	return a.Logger
}

// Log records an item with the Logger. Arguments are handled as
// with fmt.Println.
func (a *AwsConn) Log(v ...interface{}) {
	logln(a.Logger, v...)
}
