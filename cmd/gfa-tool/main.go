// gfa-tool inspects and rewrites assembly-graph interchange files:
// GFA1 graphs and the GAF/PAF alignment formats layered on them.
package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"v.io/x/lib/cmdline"
)

func newCmdView() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "view",
		Short:    "Parse a GFA file and re-emit it canonically",
		ArgsName: "path",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("view takes one pathname argument, but got %v", argv)
		}
		return view(env.Stdout, argv[0])
	})
	return cmd
}

func newCmdStats() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "stats",
		Short:    "Show per-record-kind counts and size totals for a GFA file",
		ArgsName: "path",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("stats takes one pathname argument, but got %v", argv)
		}
		return stats(env.Stdout, argv[0])
	})
	return cmd
}

func newCmdValidate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "validate",
		Short:    "Parse a file completely and report the first malformed line",
		ArgsName: "path",
	}
	formatFlag := cmd.Flags.String("format", "gfa", "Input format; one of 'gfa', 'gaf', 'paf'")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("validate takes one pathname argument, but got %v", argv)
		}
		return validate(argv[0], *formatFlag)
	})
	return cmd
}

func newCmdRenumber() *cmdline.Command {
	cmd := &cmdline.Command{
		Name: "renumber",
		Short: `Re-emit a GFA file with integer segment names verified.
The conversion is all-or-nothing: one non-numeric name fails the file.`,
		ArgsName: "path",
	}
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 1 {
			return fmt.Errorf("renumber takes one pathname argument, but got %v", argv)
		}
		return renumber(env.Stdout, argv[0])
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(&cmdline.Command{
		Name:     "gfa-tool",
		Short:    "Tools for working with GFA graphs and GAF/PAF alignments",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdView(),
			newCmdStats(),
			newCmdValidate(),
			newCmdRenumber(),
		},
	})
}
