package cmd

import (
	"context"
	"flag"
	"io/ioutil"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/pairmerge/merge"
	"gopkg.in/yaml.v3"
	"v.io/x/lib/cmdline"
)

func newCmdMerge() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "merge",
		Short: "Merge overlapping read pairs",
		Long: `
Merge finds the longest exact overlap between each R1 read and the reverse
complement of its R2 mate, and writes the reconstructed insert of every
overlapping pair to {output-dir}/{output-name}_MERGED. Counters are written
as TSV to -stats, or to stdout.

Options can also be read from a YAML file given by -opts. Its keys are the
flag names, plus "r1" and "r2" for the inputs. Flags that are set explicitly
override the file.`,
		ArgsName: "r1 r2",
	}
	var (
		flags     = merge.DefaultOpts
		optsPath  string
		statsPath string
	)
	fs := &cmd.Flags
	fs.BoolVar(&flags.R1Gzip, "r1-gzip", flags.R1Gzip, "R1 is gzip-compressed")
	fs.BoolVar(&flags.R2Gzip, "r2-gzip", flags.R2Gzip, "R2 is gzip-compressed")
	fs.StringVar(&flags.OutputDir, "output-dir", flags.OutputDir, "Output directory")
	fs.StringVar(&flags.OutputName, "output-name", flags.OutputName, "Output file name prefix")
	fs.StringVar(&flags.R1PrefixPattern, "r1-prefix", flags.R1PrefixPattern,
		"Regular expression that R1 must match. R1 is trimmed through the end of the match before merging")
	fs.StringVar(&flags.R2PrefixPattern, "r2-prefix", flags.R2PrefixPattern,
		"Regular expression that R2 must match. R2 is trimmed through the end of the match before merging")
	fs.BoolVar(&flags.ReportR1Prefix, "report-r1-prefix", flags.ReportR1Prefix,
		"Write the R1 prefix of every merged pair to {output-name}_MERGED_R1_PREFIX. Requires -r1-prefix")
	fs.BoolVar(&flags.ReportR2Prefix, "report-r2-prefix", flags.ReportR2Prefix,
		"Write the R2 prefix of every merged pair to {output-name}_MERGED_R2_PREFIX. Requires -r2-prefix")
	fs.IntVar(&flags.MinOverlap, "min-overlap", flags.MinOverlap, "Minimum overlap length")
	fs.BoolVar(&flags.AllowFullOverlap, "allow-full-overlap", flags.AllowFullOverlap,
		"Also merge pairs whose insert is no longer than a read")
	fs.BoolVar(&flags.RetainOverlapOnly, "retain-overlap-only", flags.RetainOverlapOnly,
		"Write only the overlapping bases of partially overlapping pairs")
	fs.IntVar(&flags.Parallelism, "parallelism", flags.Parallelism,
		"Number of byte ranges merged in parallel. At most the number of CPUs")
	fs.StringVar(&statsPath, "stats", "", "Path of the counters TSV. If empty, counters are written to stdout")
	fs.StringVar(&optsPath, "opts", "", "YAML file of options")

	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if len(argv) > 2 {
			return env.UsageErrorf("merge takes at most two pathname arguments, but got %v", argv)
		}
		opts, err := loadOpts(ctx, fs, flags, optsPath)
		if err != nil {
			return err
		}
		if len(argv) == 2 {
			opts.R1Path, opts.R2Path = argv[0], argv[1]
		} else if len(argv) == 1 {
			return env.UsageErrorf("merge takes both r1 and r2, but got %v", argv)
		}
		stats, err := merge.Run(ctx, opts)
		if err != nil {
			return err
		}
		if statsPath == "" {
			return merge.WriteStats(env.Stdout, stats)
		}
		return writeStatsFile(ctx, statsPath, stats)
	})
	return cmd
}

// loadOpts returns the options in optsPath, or merge.DefaultOpts if optsPath
// is empty, overridden by the flags that were set on the command line.
func loadOpts(ctx context.Context, fs *flag.FlagSet, flags merge.Opts, optsPath string) (merge.Opts, error) {
	opts := merge.DefaultOpts
	if optsPath != "" {
		data, err := readFile(ctx, optsPath)
		if err != nil {
			return opts, errors.E(err, "read options", optsPath)
		}
		if err := yaml.Unmarshal(data, &opts); err != nil {
			return opts, errors.E(errors.Invalid, err, "parse options", optsPath)
		}
	}
	override := map[string]func(){
		"r1-gzip":             func() { opts.R1Gzip = flags.R1Gzip },
		"r2-gzip":             func() { opts.R2Gzip = flags.R2Gzip },
		"output-dir":          func() { opts.OutputDir = flags.OutputDir },
		"output-name":         func() { opts.OutputName = flags.OutputName },
		"r1-prefix":           func() { opts.R1PrefixPattern = flags.R1PrefixPattern },
		"r2-prefix":           func() { opts.R2PrefixPattern = flags.R2PrefixPattern },
		"report-r1-prefix":    func() { opts.ReportR1Prefix = flags.ReportR1Prefix },
		"report-r2-prefix":    func() { opts.ReportR2Prefix = flags.ReportR2Prefix },
		"min-overlap":         func() { opts.MinOverlap = flags.MinOverlap },
		"allow-full-overlap":  func() { opts.AllowFullOverlap = flags.AllowFullOverlap },
		"retain-overlap-only": func() { opts.RetainOverlapOnly = flags.RetainOverlapOnly },
		"parallelism":         func() { opts.Parallelism = flags.Parallelism },
	}
	fs.Visit(func(f *flag.Flag) {
		if set, ok := override[f.Name]; ok {
			set()
		}
	})
	return opts, nil
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer in.Close(ctx) // nolint: errcheck
	return ioutil.ReadAll(in.Reader(ctx))
}

func writeStatsFile(ctx context.Context, path string, stats merge.Stats) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	return merge.WriteStats(out.Writer(ctx), stats)
}
