package cmd

import (
	"context"
	"log"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/vcontext"
	"v.io/x/lib/cmdline"
)

// runner adapts fn to a cmdline runner that initializes the process first.
func runner(fn func(ctx context.Context, env *cmdline.Env, argv []string) error) cmdline.Runner {
	return cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		shutdown := grail.Init()
		defer shutdown()
		return fn(vcontext.Background(), env, argv)
	})
}

// Run runs the bio-merge-pairs command line.
func Run() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(
		&cmdline.Command{
			Name:     "bio-merge-pairs",
			Short:    "Merge overlapping paired-end FASTQ reads",
			LookPath: false,
			Children: []*cmdline.Command{
				newCmdMerge(),
				newCmdPlan(),
			},
		})
}
