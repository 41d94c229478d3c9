// Package source resolves the --csv argument to a local file path,
// downloading s3:// objects first.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const s3Scheme = "s3://"

// ErrInvalidS3URI is returned for s3:// URIs without both bucket and key.
var ErrInvalidS3URI = errors.New("invalid s3 uri")

// Downloader is the subset of s3manager.Downloader used here.
type Downloader interface {
	DownloadWithContext(ctx aws.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*s3manager.Downloader)) (int64, error)
}

// Location is a bucket/key pair parsed from an s3:// URI.
type Location struct {
	Bucket string
	Key    string
}

// IsS3 reports whether uri uses the s3:// scheme.
func IsS3(uri string) bool {
	return strings.HasPrefix(uri, s3Scheme)
}

// ParseS3URI splits an s3://bucket/key URI.
func ParseS3URI(uri string) (Location, error) {
	if !IsS3(uri) {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidS3URI, uri)
	}
	splitedPath := strings.SplitN(strings.TrimPrefix(uri, s3Scheme), "/", 2)
	if len(splitedPath) != 2 || splitedPath[0] == "" || splitedPath[1] == "" || strings.HasSuffix(splitedPath[1], "/") {
		return Location{}, fmt.Errorf("%w: %s", ErrInvalidS3URI, uri)
	}
	return Location{Bucket: splitedPath[0], Key: splitedPath[1]}, nil
}

// Resolver turns a --csv argument into a readable local path.
type Resolver struct {
	downloader Downloader
	tempDir    string
}

// NewResolver builds a Resolver backed by the default AWS session. The
// session is only created when the first s3:// URI is resolved.
func NewResolver() *Resolver {
	return &Resolver{}
}

// NewResolverWithDownloader is used when the caller owns the S3 client.
func NewResolverWithDownloader(d Downloader, tempDir string) *Resolver {
	return &Resolver{downloader: d, tempDir: tempDir}
}

// Resolve returns a local path for uri and a cleanup func that removes any
// temporary file. Local paths are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, uri string) (string, func(), error) {
	if !IsS3(uri) {
		return uri, func() {}, nil
	}
	loc, err := ParseS3URI(uri)
	if err != nil {
		return "", nil, err
	}
	if r.downloader == nil {
		sess, err := session.NewSession()
		if err != nil {
			return "", nil, fmt.Errorf("create aws session: %w", err)
		}
		r.downloader = s3manager.NewDownloader(sess)
	}

	f, err := os.CreateTemp(r.tempDir, "csvmap-*-"+path.Base(loc.Key))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	n, err := r.downloader.DownloadWithContext(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to download file from S3: %w", err)
	}
	slog.Debug("file downloaded", "bucket", loc.Bucket, "key", loc.Key, "bytes", n)
	return f.Name(), cleanup, nil
}
