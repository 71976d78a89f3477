package main

import (
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

type input struct {
	ctx context.Context
	f   file.File
	r   io.Reader
	gz  *gzip.Reader
}

// openInput opens a local or S3 path, transparently decompressing
// ".gz" inputs.
func openInput(ctx context.Context, path string) (*input, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	in := &input{ctx: ctx, f: f, r: f.Reader(ctx)}
	if strings.HasSuffix(path, ".gz") {
		in.gz, err = gzip.NewReader(in.r)
		if err != nil {
			_ = f.Close(ctx)
			return nil, errors.Wrapf(err, "decompress %s", path)
		}
		in.r = in.gz
	}
	return in, nil
}

func (in *input) Read(p []byte) (int, error) {
	return in.r.Read(p)
}

func (in *input) Close() error {
	if in.gz != nil {
		if err := in.gz.Close(); err != nil {
			_ = in.f.Close(in.ctx)
			return err
		}
	}
	return in.f.Close(in.ctx)
}
