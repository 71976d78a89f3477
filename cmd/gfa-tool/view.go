package main

import (
	"io"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/gfa/encoding/gfa"
)

func view(out io.Writer, path string) error {
	ctx := vcontext.Background()
	in, err := openInput(ctx, path)
	if err != nil {
		return err
	}
	defer in.Close() // nolint: errcheck
	g, err := gfa.ReadGraph[gfa.Capture](in)
	if err != nil {
		return err
	}
	w := gfa.NewWriter[string, gfa.Capture](out)
	if err := w.WriteGraph(g); err != nil {
		return err
	}
	return w.Flush()
}
