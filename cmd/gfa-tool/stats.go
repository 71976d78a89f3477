package main

import (
	"fmt"
	"io"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/gfa/encoding/gfa"
)

// stats streams the file once with tags discarded; per-record memory
// stays constant regardless of graph size.
func stats(out io.Writer, path string) error {
	ctx := vcontext.Background()
	in, err := openInput(ctx, path)
	if err != nil {
		return err
	}
	defer in.Close() // nolint: errcheck

	var (
		segments, links, containments, paths int
		bases, steps, reverseSteps           int64
	)
	r := gfa.NewReader[gfa.Discard](in)
	for r.Scan() {
		switch l := r.Line().(type) {
		case gfa.Segment[string, gfa.Discard]:
			segments++
			if l.Sequence != "*" {
				bases += int64(len(l.Sequence))
			}
		case gfa.Link[string, gfa.Discard]:
			links++
		case gfa.Containment[string, gfa.Discard]:
			containments++
		case gfa.Path[gfa.Discard]:
			paths++
			it := l.Steps()
			for it.Next() {
				_, orient := it.Step()
				steps++
				if orient.IsReverse() {
					reverseSteps++
				}
			}
			if err := it.Err(); err != nil {
				return err
			}
		}
	}
	if err := r.Err(); err != nil {
		return err
	}
	fmt.Fprintf(out, "segments\t%d\n", segments)
	fmt.Fprintf(out, "links\t%d\n", links)
	fmt.Fprintf(out, "containments\t%d\n", containments)
	fmt.Fprintf(out, "paths\t%d\n", paths)
	fmt.Fprintf(out, "bases\t%d\n", bases)
	fmt.Fprintf(out, "path steps\t%d (%d reverse)\n", steps, reverseSteps)
	return nil
}
