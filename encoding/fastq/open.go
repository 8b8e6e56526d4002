package fastq

import (
	"context"
	"encoding/binary"
	"io"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// Stream is a FASTQ file opened for reading at an uncompressed byte offset.
// The embedded Scanner reports offsets relative to the start of the
// uncompressed data.
type Stream struct {
	*Scanner
	path string
	in   file.File
	gz   *gzip.Reader
}

func openReader(ctx context.Context, path string, gzipped bool) (file.File, io.Reader, *gzip.Reader, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "open %s", path)
	}
	if !gzipped {
		return in, in.Reader(ctx), nil, nil
	}
	gz, err := gzip.NewReader(in.Reader(ctx))
	if err != nil {
		in.Close(ctx) // nolint: errcheck
		return nil, nil, nil, errors.Wrapf(err, "gzip %s", path)
	}
	return in, gz, gz, nil
}

// Open opens the FASTQ file at path and positions it at the uncompressed byte
// offset off. Fields selects the record fields that Scan fills. Plain files
// are seeked directly; gzip files are decompressed from the start and the
// first off bytes are discarded. Opening past the end of the data is not an
// error: the first Scan simply returns false.
func Open(ctx context.Context, path string, gzipped bool, off int64, fields Field) (*Stream, error) {
	if !gzipped {
		in, err := file.Open(ctx, path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		r := in.Reader(ctx)
		if off > 0 {
			if _, err := r.Seek(off, io.SeekStart); err != nil {
				in.Close(ctx) // nolint: errcheck
				return nil, errors.Wrapf(err, "seek %s to %d", path, off)
			}
		}
		return &Stream{Scanner: NewScannerAt(r, off, fields), path: path, in: in}, nil
	}
	in, r, gz, err := openReader(ctx, path, gzipped)
	if err != nil {
		return nil, err
	}
	s := &Stream{Scanner: NewScanner(r, fields), path: path, in: in, gz: gz}
	s.Skip(off)
	if err := s.Err(); err != nil {
		s.Close(ctx) // nolint: errcheck
		return nil, errors.Wrapf(err, "skip %s to %d", path, off)
	}
	return s, nil
}

// Path returns the pathname passed to Open.
func (s *Stream) Path() string { return s.path }

// Close closes the underlying file.
func (s *Stream) Close(ctx context.Context) error {
	var err error
	if s.gz != nil {
		err = s.gz.Close()
	}
	if e := s.in.Close(ctx); e != nil && err == nil {
		err = e
	}
	return err
}

// UncompressedSize returns the size of the FASTQ data in path. For gzip files
// the size is read from the ISIZE field of the gzip trailer, which holds the
// uncompressed size modulo 2^32 of the last member only; the result is
// exact only for single-member files smaller than 4GiB.
func UncompressedSize(ctx context.Context, path string, gzipped bool) (int64, error) {
	if !gzipped {
		info, err := file.Stat(ctx, path)
		if err != nil {
			return 0, errors.Wrapf(err, "stat %s", path)
		}
		return info.Size(), nil
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", path)
	}
	defer in.Close(ctx) // nolint: errcheck
	r := in.Reader(ctx)
	if _, err := r.Seek(-4, io.SeekEnd); err != nil {
		return 0, errors.Wrapf(err, "%s: gzip trailer", path)
	}
	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return 0, errors.Wrapf(err, "%s: gzip trailer", path)
	}
	return int64(binary.LittleEndian.Uint32(trailer[:])), nil
}

// CountRecords returns the number of FASTQ records in path.
func CountRecords(ctx context.Context, path string, gzipped bool) (n int64, err error) {
	in, r, gz, err := openReader(ctx, path, gzipped)
	if err != nil {
		return 0, err
	}
	defer func() {
		if gz != nil {
			if e := gz.Close(); e != nil && err == nil {
				err = e
			}
		}
		if e := in.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	sc := NewScanner(r, 0)
	var read Read
	for sc.Scan(&read) {
		n++
	}
	if err = sc.Err(); err != nil {
		return n, errors.Wrapf(err, "%s: record %d", path, n+1)
	}
	return n, nil
}
