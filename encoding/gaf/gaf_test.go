package gaf_test

import (
	"bytes"
	"testing"

	"github.com/grailbio/gfa/encoding/gaf"
	"github.com/grailbio/gfa/encoding/gfa"
	"github.com/stretchr/testify/require"
)

func fields(line string) [][]byte {
	return bytes.Split([]byte(line), []byte{'\t'})
}

func TestParsePAF(t *testing.T) {
	p, err := gaf.ParsePAF[gfa.Capture](fields(
		"read1\t6\t0\t6\t+\tchr1\t12\t2\t8\t6\t6\t60\tcg:Z:6M"))
	require.NoError(t, err)
	require.Equal(t, gaf.PAF[gfa.Capture]{
		QueryName:   "read1",
		QueryLen:    6,
		QueryStart:  0,
		QueryEnd:    6,
		Strand:      gfa.Forward,
		TargetName:  "chr1",
		TargetLen:   12,
		TargetStart: 2,
		TargetEnd:   8,
		Matches:     6,
		BlockLen:    6,
		MapQ:        60,
		Tags:        gfa.Capture{gfa.Tag("cg", gfa.Str("6M"))},
	}, p)
	require.Equal(t, "read1\t6\t0\t6\t+\tchr1\t12\t2\t8\t6\t6\t60\tcg:Z:6M", p.String())
}

func TestParsePAFErrors(t *testing.T) {
	tests := []string{
		"read1\t6\t0\t6\t+\tchr1\t12\t2\t8\t6\t6",       // missing quality
		"read1\tx\t0\t6\t+\tchr1\t12\t2\t8\t6\t6\t60",   // non-numeric length
		"read1\t6\t0\t6\t?\tchr1\t12\t2\t8\t6\t6\t60",   // bad strand
		"read1\t6\t0\t6\t+\tchr1\t12\t2\t8\t6\t6\t999",  // quality out of range
		"read1\t6\t0\t6\t+\tchr1\t12\t2\t8\t6\t6\t60\tRC:i:x", // bad tag
	}
	for _, in := range tests {
		_, err := gaf.ParsePAF[gfa.Discard](fields(in))
		require.Error(t, err, "input %q", in)
	}
}

func seg(o gfa.Orientation, name string) gaf.GAFStep {
	return gaf.GAFStep{Orient: o, Name: name}
}

func intv(o gfa.Orientation, name string, start, end int) gaf.GAFStep {
	return gaf.GAFStep{Orient: o, Name: name, Ranged: true, Start: start, End: end}
}

func TestParseGAFPath(t *testing.T) {
	tests := []struct {
		in   string
		want gaf.GAFPath
	}{
		{">s2>s3>s4", gaf.GAFPath{Steps: []gaf.GAFStep{
			seg(gfa.Forward, "s2"), seg(gfa.Forward, "s3"), seg(gfa.Forward, "s4")}}},
		{">s1>s2<s3<s4", gaf.GAFPath{Steps: []gaf.GAFStep{
			seg(gfa.Forward, "s1"), seg(gfa.Forward, "s2"),
			seg(gfa.Backward, "s3"), seg(gfa.Backward, "s4")}}},
		{">chr1:5-8>foo:8-16", gaf.GAFPath{Steps: []gaf.GAFStep{
			intv(gfa.Forward, "chr1", 5, 8), intv(gfa.Forward, "foo", 8, 16)}}},
		{"<chr2:123-456<chr2:455-780", gaf.GAFPath{Steps: []gaf.GAFStep{
			intv(gfa.Backward, "chr2", 123, 456), intv(gfa.Backward, "chr2", 455, 780)}}},
		{"chr1", gaf.GAFPath{StableID: "chr1"}},
		{"some_id1", gaf.GAFPath{StableID: "some_id1"}},
	}
	for _, tt := range tests {
		got, err := gaf.ParseGAFPath([]byte(tt.in))
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
		require.Equal(t, tt.in, got.String(), "re-encoding %q", tt.in)
	}
}

// Every target column is exactly one of an oriented walk or a stable
// identifier; a bare '<' or '>' inside a non-walk token fails both.
func TestGAFPathExclusivity(t *testing.T) {
	walks := []string{">s1", "<s1", ">chr1:5-8"}
	stables := []string{"chr1", "some_id1", "id:with:colons"}
	malformed := []string{"s1>s2<s3", ">", "<", ">s1:5", ">s1:5-", ">s1:-8", ">s1>"}
	for _, in := range walks {
		got, err := gaf.ParseGAFPath([]byte(in))
		require.NoError(t, err, "input %q", in)
		require.False(t, got.IsStable(), "input %q", in)
	}
	for _, in := range stables {
		got, err := gaf.ParseGAFPath([]byte(in))
		require.NoError(t, err, "input %q", in)
		require.True(t, got.IsStable(), "input %q", in)
	}
	for _, in := range malformed {
		_, err := gaf.ParseGAFPath([]byte(in))
		require.Error(t, err, "input %q", in)
	}
}

func TestParseGAFStep(t *testing.T) {
	step, rest, err := gaf.ParseGAFStep([]byte("<segmentid>s1<s2"))
	require.NoError(t, err)
	require.Equal(t, seg(gfa.Backward, "segmentid"), step)
	require.Equal(t, ">s1<s2", string(rest))

	step, rest, err = gaf.ParseGAFStep(rest)
	require.NoError(t, err)
	require.Equal(t, seg(gfa.Forward, "s1"), step)
	require.Equal(t, "<s2", string(rest))

	step, rest, err = gaf.ParseGAFStep([]byte("<chr2:123-456<chr2:455-780"))
	require.NoError(t, err)
	require.Equal(t, intv(gfa.Backward, "chr2", 123, 456), step)
	require.Equal(t, "<chr2:455-780", string(rest))
}

func TestParseGAFLines(t *testing.T) {
	g, err := gaf.ParseGAFLine[gfa.Capture](
		[]byte("read1\t6\t0\t6\t+\t>s2>s3>s4\t12\t2\t8\t6\t6\t60\tcg:Z:6M"))
	require.NoError(t, err)
	want := gaf.GAF[gfa.Capture]{
		QueryName:  "read1",
		QueryLen:   6,
		QueryStart: 0,
		QueryEnd:   6,
		Strand:     gfa.Forward,
		Path: gaf.GAFPath{Steps: []gaf.GAFStep{
			seg(gfa.Forward, "s2"), seg(gfa.Forward, "s3"), seg(gfa.Forward, "s4")}},
		PathLen:   12,
		PathStart: 2,
		PathEnd:   8,
		Matches:   6,
		BlockLen:  6,
		MapQ:      60,
		Tags:      gfa.Capture{gfa.Tag("cg", gfa.Str("6M"))},
	}
	require.Equal(t, want, g)

	g, err = gaf.ParseGAFLine[gfa.Capture](
		[]byte("read1\t6\t0\t6\t+\tchr1\t12\t2\t8\t6\t6\t60\tcg:Z:6M"))
	require.NoError(t, err)
	want.Path = gaf.GAFPath{StableID: "chr1"}
	require.Equal(t, want, g)

	g, err = gaf.ParseGAFLine[gfa.Capture](
		[]byte("read2\t7\t0\t7\t-\t>chr1:5-8>foo:8-16\t11\t1\t8\t7\t7\t60\tcg:Z:7M"))
	require.NoError(t, err)
	require.Equal(t, gfa.Backward, g.Strand)
	require.Equal(t, []gaf.GAFStep{
		intv(gfa.Forward, "chr1", 5, 8), intv(gfa.Forward, "foo", 8, 16)}, g.Path.Steps)
	require.Equal(t,
		"read2\t7\t0\t7\t-\t>chr1:5-8>foo:8-16\t11\t1\t8\t7\t7\t60\tcg:Z:7M",
		g.String())
}

func TestParseGAFLineErrors(t *testing.T) {
	// A target column mixing walk markers into a stable name fails the
	// whole line with the offending line retained.
	_, err := gaf.ParseGAFLine[gfa.Discard](
		[]byte("read1\t6\t0\t6\t+\ts1>s2<s3\t12\t2\t8\t6\t6\t60"))
	var le *gfa.LineError
	require.ErrorAs(t, err, &le)
	require.Equal(t, gfa.LineInvalid, le.Kind)
	require.Equal(t, "read1\t6\t0\t6\t+\ts1>s2<s3\t12\t2\t8\t6\t6\t60", le.Line)
	require.False(t, le.Recoverable())
}
