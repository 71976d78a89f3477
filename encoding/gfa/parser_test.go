package gfa_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/grailbio/gfa/encoding/gfa"
	"github.com/grailbio/testutil/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineKinds(t *testing.T) {
	const in = "H\tVN:Z:1.0\n" +
		"S\t11\tACCTT\n" +
		"L\t11\t+\t12\t-\t4M\n" +
		"C\t1\t-\t2\t+\t110\t100M\n" +
		"P\t14\t11+,12-,13+\t4M,5M\n"
	var kinds []string
	r := gfa.NewReader[gfa.Discard](strings.NewReader(in))
	for r.Scan() {
		switch l := r.Line().(type) {
		case gfa.Header[gfa.Discard]:
			kinds = append(kinds, "H"+l.Version)
		case gfa.Segment[string, gfa.Discard]:
			kinds = append(kinds, "S"+l.Name)
		case gfa.Link[string, gfa.Discard]:
			kinds = append(kinds, "L"+l.From+l.FromOrient.String()+l.To+l.ToOrient.String())
		case gfa.Containment[string, gfa.Discard]:
			kinds = append(kinds, "C"+l.Container+l.Contained)
		case gfa.Path[gfa.Discard]:
			kinds = append(kinds, "P"+l.Name+":"+l.SegmentNames)
		}
	}
	assert.NoError(t, r.Err())
	assert.EQ(t, kinds, []string{"H1.0", "S11", "L11+12-", "C12", "P14:11+,12-,13+"})
}

func TestParseLineErrors(t *testing.T) {
	tests := []struct {
		line        string
		kind        gfa.LineKind
		recoverable bool
	}{
		{"", gfa.LineEmpty, true},
		{"Z\tfoo\tbar", gfa.LineUnknownType, true},
		{"# a comment", gfa.LineUnknownType, true},
		{"S\t11", gfa.LineInvalid, false},
		{"S\t11\t\xff\xfe", gfa.LineInvalid, false},
		{"S\t\tACCTT", gfa.LineInvalid, false},
		{"L\t11\t?\t12\t-\t4M", gfa.LineInvalid, false},
		{"L\t11\t+\t12\t-\t4Q", gfa.LineInvalid, false},
		{"C\t1\t-\t2\t+\tx\t100M", gfa.LineInvalid, false},
		{"S\t11\tACCTT\tRC:y:3", gfa.LineInvalid, false},
		{"P\t14\t11+,12-\t4M,xx", gfa.LineInvalid, false},
	}
	for _, tt := range tests {
		_, err := gfa.ParseLine[gfa.Discard]([]byte(tt.line))
		var le *gfa.LineError
		require.ErrorAs(t, err, &le, "line %q", tt.line)
		require.Equal(t, tt.kind, le.Kind, "line %q", tt.line)
		require.Equal(t, tt.recoverable, le.Recoverable(), "line %q", tt.line)
		if tt.kind == gfa.LineInvalid {
			// The raw line is kept for diagnostics.
			require.Equal(t, tt.line, le.Line)
		}
	}
}

func TestNonUTF8LineIsFatal(t *testing.T) {
	_, err := gfa.ParseLine[gfa.Discard]([]byte("S\t11\t\xff\xfe"))
	var le *gfa.LineError
	require.ErrorAs(t, err, &le)
	require.Equal(t, gfa.LineInvalid, le.Kind)
	require.False(t, le.Recoverable())
	require.NotNil(t, le.Field)
	require.Equal(t, gfa.KindUTF8, le.Field.Kind)
}

func TestOrientationErrorKind(t *testing.T) {
	_, err := gfa.ParseLine[gfa.Discard]([]byte("L\t11\t*\t12\t-\t4M"))
	var le *gfa.LineError
	require.ErrorAs(t, err, &le)
	require.NotNil(t, le.Field)
	require.Equal(t, gfa.KindOrientation, le.Field.Kind)
}

// A stream with skippable junk between records parses to completion.
func TestReaderSkipsRecoverableLines(t *testing.T) {
	const in = "# generated by test\n" +
		"\n" +
		"S\t11\tACCTT\n" +
		"W\tsample\t1\tnot-a-gfa1-line\n" +
		"S\t12\tTCAAGG\n"
	g, err := gfa.ReadGraph[gfa.Discard](strings.NewReader(in))
	assert.NoError(t, err)
	assert.EQ(t, len(g.Segments), 2)
	assert.EQ(t, g.Segments[0].Name, "11")
	assert.EQ(t, g.Segments[1].Name, "12")
}

func TestReaderStopsAtFatalError(t *testing.T) {
	const in = "S\t11\tACCTT\n" +
		"S\t12\n" +
		"S\t13\tTCAAGG\n"
	r := gfa.NewReader[gfa.Discard](strings.NewReader(in))
	assert.True(t, r.Scan())
	assert.False(t, r.Scan())
	var le *gfa.LineError
	require.ErrorAs(t, r.Err(), &le)
	require.Equal(t, gfa.LineInvalid, le.Kind)
	require.Equal(t, "S\t12", le.Line)
	require.Equal(t, gfa.KindMissingFields, le.Field.Kind)
	// Once stopped, the reader stays stopped.
	assert.False(t, r.Scan())
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestReaderIOError(t *testing.T) {
	cause := errors.New("stream went away")
	r := gfa.NewReader[gfa.Discard](failingReader{err: cause})
	assert.False(t, r.Scan())
	var le *gfa.LineError
	require.ErrorAs(t, r.Err(), &le)
	require.Equal(t, gfa.LineIO, le.Kind)
	require.False(t, le.Recoverable())
	require.ErrorIs(t, r.Err(), cause)
}

func TestGraphRoundTrip(t *testing.T) {
	const in = "H\tVN:Z:1.0\n" +
		"S\t11\tACCTT\tRC:i:123\n" +
		"S\t12\tTCAAGG\tar:B:c,1,-2\thx:H:1AF\n" +
		"S\t13\t*\n" +
		"L\t11\t+\t12\t-\t4M\tMQ:i:60\n" +
		"C\t11\t-\t12\t+\t110\t100M\n" +
		"P\t14\t11+,12-,13+\t4M,5M\tco:Z:a walk\n"
	g, err := gfa.ReadGraph[gfa.Capture](strings.NewReader(in))
	require.NoError(t, err)

	var buf bytes.Buffer
	w := gfa.NewWriter[string, gfa.Capture](&buf)
	require.NoError(t, w.WriteGraph(g))
	require.NoError(t, w.Flush())
	require.Equal(t, in, buf.String())
}

// A header with tags but no version is still a header worth keeping;
// only a completely bare 'H' drops out of the round trip.
func TestWriteGraphHeader(t *testing.T) {
	g := &gfa.GFA[string, gfa.Capture]{}
	g.Insert(gfa.Header[gfa.Capture]{Tags: gfa.Capture{gfa.Tag("TS", gfa.Int(100))}})
	g.Insert(gfa.Segment[string, gfa.Capture]{Name: "11", Sequence: "*"})

	var buf bytes.Buffer
	w := gfa.NewWriter[string, gfa.Capture](&buf)
	require.NoError(t, w.WriteGraph(g))
	require.NoError(t, w.Flush())
	require.Equal(t, "H\tTS:i:100\nS\t11\t*\n", buf.String())

	buf.Reset()
	g.Header = gfa.Header[gfa.Capture]{}
	w = gfa.NewWriter[string, gfa.Capture](&buf)
	require.NoError(t, w.WriteGraph(g))
	require.NoError(t, w.Flush())
	require.Equal(t, "S\t11\t*\n", buf.String())
}

func TestEncodeLineInverse(t *testing.T) {
	lines := []string{
		"S\t11\tACCTT\tRC:i:123",
		"L\t11\t+\t12\t-\t*",
		"C\t1\t-\t2\t+\t110\t*",
		"P\t14\t11+\t*",
		"H\tVN:Z:1.0",
	}
	for _, in := range lines {
		parsed, err := gfa.ParseLine[gfa.Capture]([]byte(in))
		require.NoError(t, err, "line %q", in)
		require.Equal(t, in, gfa.EncodeLine[string, gfa.Capture](parsed), "line %q", in)
	}
}
