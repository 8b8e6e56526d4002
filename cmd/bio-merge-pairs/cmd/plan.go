package cmd

import (
	"context"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/pairmerge/merge"
	"v.io/x/lib/cmdline"
)

func newCmdPlan() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "plan",
		Short: "Print the byte ranges a parallel merge would split a FASTQ file into",
		Long: `
Plan prints one line per range: the range index, the offset of its first
record, the offset of the first record of the next range, and the ID line of
that record. Offsets are in the uncompressed data. -1 marks the end of the
file, or an empty range.`,
		ArgsName: "r1",
	}
	gzipped := cmd.Flags.Bool("gzip", false, "The input is gzip-compressed")
	chunks := cmd.Flags.Int("chunks", 2, "Number of ranges")
	cmd.Runner = runner(func(ctx context.Context, env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return env.UsageErrorf("plan takes one pathname argument, but got %v", argv)
		}
		ranges, err := merge.PlanChunks(ctx, argv[0], *gzipped, *chunks)
		if err != nil {
			return err
		}
		return writePlan(env.Stdout, ranges)
	})
	return cmd
}

func writePlan(w io.Writer, ranges []merge.ChunkRange) error {
	out := tsv.NewWriter(w)
	out.WriteString("#INDEX")
	out.WriteString("START")
	out.WriteString("END")
	out.WriteString("END_MARKER")
	if err := out.EndLine(); err != nil {
		return errors.E(err, "write plan")
	}
	for i, rng := range ranges {
		out.WriteString(strconv.Itoa(i))
		out.WriteString(strconv.FormatInt(rng.Start, 10))
		out.WriteString(strconv.FormatInt(rng.End, 10))
		out.WriteString(rng.EndMarker)
		if err := out.EndLine(); err != nil {
			return errors.E(err, "write plan")
		}
	}
	if err := out.Flush(); err != nil {
		return errors.E(err, "write plan")
	}
	return nil
}
