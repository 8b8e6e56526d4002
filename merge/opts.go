package merge

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// Opts configures a merge run.
type Opts struct {
	// R1Path and R2Path are the paired FASTQ inputs.
	R1Path string `yaml:"r1"`
	R2Path string `yaml:"r2"`
	// R1Gzip and R2Gzip tell whether the inputs are gzip-compressed.
	R1Gzip bool `yaml:"r1-gzip"`
	R2Gzip bool `yaml:"r2-gzip"`

	// OutputDir and OutputName determine the output pathnames. Merged reads
	// are written to OutputDir/OutputName_MERGED.
	OutputDir  string `yaml:"output-dir"`
	OutputName string `yaml:"output-name"`

	// R1PrefixPattern and R2PrefixPattern are optional regular expressions
	// (RE2 syntax). When set, a read must contain a match, and the read is
	// trimmed up to the end of the leftmost match before merging.
	R1PrefixPattern string `yaml:"r1-prefix"`
	R2PrefixPattern string `yaml:"r2-prefix"`
	// ReportR1Prefix and ReportR2Prefix write the matched prefix of every
	// merged pair to OutputName_MERGED_R1_PREFIX and _R2_PREFIX. They
	// require the corresponding pattern.
	ReportR1Prefix bool `yaml:"report-r1-prefix"`
	ReportR2Prefix bool `yaml:"report-r2-prefix"`

	// MinOverlap is the minimum number of overlapping bases.
	MinOverlap int `yaml:"min-overlap"`
	// AllowFullOverlap also accepts pairs whose insert is no longer than a
	// read, i.e., R2 is entirely contained in R1.
	AllowFullOverlap bool `yaml:"allow-full-overlap"`
	// RetainOverlapOnly writes only the overlapping part of a partially
	// overlapping pair instead of the whole insert.
	RetainOverlapOnly bool `yaml:"retain-overlap-only"`

	// Parallelism is the number of byte ranges, and the max number of ranges
	// merged concurrently. It must be in [1, runtime.NumCPU()].
	Parallelism int `yaml:"parallelism"`
}

// DefaultOpts sets the default values to Opts.
var DefaultOpts = Opts{
	OutputName:  "output",
	MinOverlap:  16,
	Parallelism: 1,
}

const (
	mergedSuffix   = "_MERGED"
	r1PrefixSuffix = "_MERGED_R1_PREFIX"
	r2PrefixSuffix = "_MERGED_R2_PREFIX"
)

func (o *Opts) outputPath(suffix string) string {
	return filepath.Join(o.OutputDir, o.OutputName+suffix)
}

// MergedPath is the pathname of the merged-read output.
func (o *Opts) MergedPath() string { return o.outputPath(mergedSuffix) }

// R1PrefixPath is the pathname of the R1 prefix report, or "" if it is
// not requested.
func (o *Opts) R1PrefixPath() string {
	if !o.ReportR1Prefix {
		return ""
	}
	return o.outputPath(r1PrefixSuffix)
}

// R2PrefixPath is the pathname of the R2 prefix report, or "" if it is
// not requested.
func (o *Opts) R2PrefixPath() string {
	if !o.ReportR2Prefix {
		return ""
	}
	return o.outputPath(r2PrefixSuffix)
}

func validate(ctx context.Context, opts *Opts) error {
	for _, path := range []string{opts.R1Path, opts.R2Path} {
		if path == "" {
			return errors.E(errors.Invalid, "both R1 and R2 inputs must be specified")
		}
		if _, err := file.Stat(ctx, path); err != nil {
			return errors.E(errors.NotExist, err, "input file", path)
		}
	}
	if ncpu := runtime.NumCPU(); opts.Parallelism < 1 || opts.Parallelism > ncpu {
		return errors.E(errors.Invalid,
			fmt.Sprintf("parallelism %d is not in [1, %d]", opts.Parallelism, ncpu))
	}
	if opts.MinOverlap < 1 {
		return errors.E(errors.Invalid, fmt.Sprintf("min overlap %d must be positive", opts.MinOverlap))
	}
	if opts.OutputName == "" {
		return errors.E(errors.Invalid, "output name must be non-empty")
	}
	if opts.ReportR1Prefix && opts.R1PrefixPattern == "" {
		return errors.E(errors.Invalid, "R1 prefix report requested without an R1 prefix pattern")
	}
	if opts.ReportR2Prefix && opts.R2PrefixPattern == "" {
		return errors.E(errors.Invalid, "R2 prefix report requested without an R2 prefix pattern")
	}
	return nil
}
