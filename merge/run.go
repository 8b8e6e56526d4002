package merge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Run merges the read pairs of opts.R1Path and opts.R2Path and writes the
// results to the paths given by opts.MergedPath, opts.R1PrefixPath and
// opts.R2PrefixPath. It returns the counters summed over the whole input.
func Run(ctx context.Context, opts Opts) (Stats, error) {
	m, err := NewMerger(ctx, opts)
	if err != nil {
		return Stats{}, err
	}
	return m.Run(ctx)
}

// Run merges the whole input. With Parallelism 1 the input is merged in one
// pass straight into the outputs. Otherwise R1 is split into Parallelism
// ranges, the ranges are merged concurrently into per-range temporary files,
// and the temporary files are concatenated in range order. Either way the
// outputs are identical.
func (m *Merger) Run(ctx context.Context) (Stats, error) {
	var (
		start = time.Now()
		stats Stats
		err   error
	)
	if m.opts.Parallelism <= 1 {
		stats, err = m.mergeToFiles(ctx, WholeStream, m.outputPaths(""))
	} else {
		stats, err = m.runParallel(ctx)
	}
	if err != nil {
		return Stats{}, err
	}
	log.Printf("%s, %s: merged %d of %d pairs into %s in %v",
		m.opts.R1Path, m.opts.R2Path, stats.Merged, stats.TotalPairs, m.opts.MergedPath(), time.Since(start))
	return stats, nil
}

// outputPaths is the set of files written by one merge pass. Prefix report
// paths are empty when the report is disabled.
type outputPaths struct {
	merged, r1Prefix, r2Prefix string
}

// outputPaths returns the final output paths with suffix appended.
func (m *Merger) outputPaths(suffix string) outputPaths {
	p := outputPaths{merged: m.opts.MergedPath() + suffix}
	if path := m.opts.R1PrefixPath(); path != "" {
		p.r1Prefix = path + suffix
	}
	if path := m.opts.R2PrefixPath(); path != "" {
		p.r2Prefix = path + suffix
	}
	return p
}

func (p outputPaths) list() []string {
	paths := []string{p.merged}
	for _, path := range []string{p.r1Prefix, p.r2Prefix} {
		if path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

// newRunID returns a string that makes the temporary files of a run unique,
// so that concurrent runs writing to the same directory do not collide.
func newRunID(now time.Time) string {
	return now.Format("20060102T150405") + "_" + uuid.New().String()[:8]
}

func tempSuffix(i int, runID string) string {
	return fmt.Sprintf("_TEMP_%d_%s", i+1, runID)
}

// mergeToFiles merges rng into newly created files.
func (m *Merger) mergeToFiles(ctx context.Context, rng ChunkRange, paths outputPaths) (stats Stats, err error) {
	var (
		files []file.File
		bufs  []*bufio.Writer
		out   Outputs
	)
	defer func() {
		for _, f := range files {
			file.CloseAndReport(ctx, f, &err)
		}
	}()
	create := func(path string) (io.Writer, error) {
		f, err := file.Create(ctx, path)
		if err != nil {
			return nil, errors.E(err, "create", path)
		}
		files = append(files, f)
		w := bufio.NewWriterSize(f.Writer(ctx), 1<<20)
		bufs = append(bufs, w)
		return w, nil
	}
	if out.Merged, err = create(paths.merged); err != nil {
		return
	}
	if paths.r1Prefix != "" {
		if out.R1Prefix, err = create(paths.r1Prefix); err != nil {
			return
		}
	}
	if paths.r2Prefix != "" {
		if out.R2Prefix, err = create(paths.r2Prefix); err != nil {
			return
		}
	}
	if stats, err = m.MergeRange(ctx, rng, out); err != nil {
		return
	}
	for _, w := range bufs {
		if err = w.Flush(); err != nil {
			return
		}
	}
	return
}

func (m *Merger) runParallel(ctx context.Context) (total Stats, err error) {
	n := m.opts.Parallelism
	ranges, err := PlanChunks(ctx, m.opts.R1Path, m.opts.R1Gzip, n)
	if err != nil {
		return
	}
	if err = m.CheckPairLayout(ctx, ranges); err != nil {
		return
	}
	runID := newRunID(time.Now())
	temps := make([]outputPaths, n)
	for i := range temps {
		temps[i] = m.outputPaths(tempSuffix(i, runID))
	}
	defer removeTemps(ctx, temps)

	stats := make([]Stats, n)
	err = traverse.Limit(n).Each(n, func(i int) (err error) {
		stats[i], err = m.mergeToFiles(ctx, ranges[i], temps[i])
		return
	})
	if err != nil {
		return
	}
	final := m.outputPaths("")
	srcs := make([]string, n)
	for i := range temps {
		srcs[i] = temps[i].merged
	}
	if err = concat(ctx, final.merged, srcs); err != nil {
		return
	}
	if final.r1Prefix != "" {
		for i := range temps {
			srcs[i] = temps[i].r1Prefix
		}
		if err = concat(ctx, final.r1Prefix, srcs); err != nil {
			return
		}
	}
	if final.r2Prefix != "" {
		for i := range temps {
			srcs[i] = temps[i].r2Prefix
		}
		if err = concat(ctx, final.r2Prefix, srcs); err != nil {
			return
		}
	}
	for i, s := range stats {
		log.Debug.Printf("range %d %v: %d pairs", i, ranges[i], s.TotalPairs)
		total = total.Merge(s)
	}
	return
}

// removeTemps removes the temporary files that exist. It runs after both
// successful and failed runs.
func removeTemps(ctx context.Context, temps []outputPaths) {
	for _, p := range temps {
		for _, path := range p.list() {
			if _, err := file.Stat(ctx, path); err != nil {
				continue
			}
			if err := file.Remove(ctx, path); err != nil {
				log.Error.Printf("remove %s: %v", path, err)
			}
		}
	}
}

// concat writes the concatenation of srcs to dst.
func concat(ctx context.Context, dst string, srcs []string) (err error) {
	out, err := file.Create(ctx, dst)
	if err != nil {
		return errors.E(err, "create", dst)
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := out.Writer(ctx)
	for _, src := range srcs {
		if err = appendFile(ctx, w, src); err != nil {
			return errors.E(err, "concatenate", src, dst)
		}
	}
	return nil
}

func appendFile(ctx context.Context, w io.Writer, path string) error {
	in, err := file.Open(ctx, path)
	if err != nil {
		return err
	}
	defer in.Close(ctx) // nolint: errcheck
	_, err = io.Copy(w, in.Reader(ctx))
	return err
}
