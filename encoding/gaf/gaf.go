// Package gaf implements the PAF and GAF alignment record formats and
// the run-length CIGAR codec they embed.
//
// The two formats share one tab-delimited grammar; they differ only in
// the target column, which PAF reads as a flat sequence name and GAF
// re-parses as either a stable identifier or an oriented walk through
// an assembly graph. ParseGAF therefore runs the flat parser first and
// re-interprets the already-extracted target column, keeping the two
// grammars independently testable.
//
// Optional tag handling and the error taxonomy are shared with
// encoding/gfa.
package gaf

import (
	"bytes"
	"strconv"

	"github.com/grailbio/gfa/encoding/gfa"
)

// PAF is a flat alignment record: twelve required columns and trailing
// optional tags under the policy T. Ranges are 0-based half-open.
type PAF[T gfa.TagStorage] struct {
	QueryName   string
	QueryLen    int
	QueryStart  int
	QueryEnd    int
	Strand      gfa.Orientation
	TargetName  string
	TargetLen   int
	TargetStart int
	TargetEnd   int
	Matches     int
	BlockLen    int
	MapQ        uint8
	Tags        T
}

// GAF is a graph-walk alignment record: the PAF shape with the target
// name replaced by a parsed path. PathLen and the path range describe
// position along the queried path, not along any one step.
type GAF[T gfa.TagStorage] struct {
	QueryName  string
	QueryLen   int
	QueryStart int
	QueryEnd   int
	Strand     gfa.Orientation
	Path       GAFPath
	PathLen    int
	PathStart  int
	PathEnd    int
	Matches    int
	BlockLen   int
	MapQ       uint8
	Tags       T
}

// GAFStep is one element of an oriented walk: '>' or '<' followed by a
// name, optionally with a stable-coordinate half-open interval. Start
// and End are meaningful only when Ranged is set.
type GAFStep struct {
	Orient gfa.Orientation
	Name   string
	Ranged bool
	Start  int
	End    int
}

func (s GAFStep) appendTo(buf []byte) []byte {
	if s.Orient == gfa.Backward {
		buf = append(buf, '<')
	} else {
		buf = append(buf, '>')
	}
	buf = append(buf, s.Name...)
	if s.Ranged {
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, int64(s.Start), 10)
		buf = append(buf, '-')
		buf = strconv.AppendInt(buf, int64(s.End), 10)
	}
	return buf
}

func (s GAFStep) String() string {
	return string(s.appendTo(nil))
}

// GAFPath is the parsed target column of a GAF record: either a
// stable identifier, or an oriented walk of one or more steps. Exactly
// one form is set.
type GAFPath struct {
	StableID string
	Steps    []GAFStep
}

// IsStable reports whether the path is a stable identifier rather than
// an oriented walk.
func (p GAFPath) IsStable() bool {
	return p.Steps == nil
}

func (p GAFPath) appendTo(buf []byte) []byte {
	if p.IsStable() {
		return append(buf, p.StableID...)
	}
	for _, s := range p.Steps {
		buf = s.appendTo(buf)
	}
	return buf
}

func (p GAFPath) String() string {
	return string(p.appendTo(nil))
}

// Step names end at the next orientation marker, interval separator,
// or whitespace.
func stepNameEnd(b []byte) int {
	for i, c := range b {
		switch c {
		case '<', '>', ':', ' ', '\t', '\r', '\n':
			return i
		}
	}
	return len(b)
}

// ParseGAFStep parses one oriented step at the start of b and returns
// the remainder. A ':' after the name is consumed only when a full
// "start-end" interval follows; otherwise the step ends at the ':',
// which a surrounding path parse will then reject.
func ParseGAFStep(b []byte) (GAFStep, []byte, error) {
	if len(b) == 0 {
		return GAFStep{}, nil, &gfa.FieldError{Kind: gfa.KindMissingFields}
	}
	var step GAFStep
	switch b[0] {
	case '>':
		step.Orient = gfa.Forward
	case '<':
		step.Orient = gfa.Backward
	default:
		return GAFStep{}, nil, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "Path"}
	}
	rest := b[1:]
	n := stepNameEnd(rest)
	if n == 0 {
		return GAFStep{}, nil, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "Path"}
	}
	step.Name, rest = string(rest[:n]), rest[n:]
	if start, end, after, ok := parseInterval(rest); ok {
		step.Ranged = true
		step.Start, step.End = start, end
		rest = after
	}
	return step, rest, nil
}

// parseInterval matches ":<digits>-<digits>".
func parseInterval(b []byte) (start, end int, rest []byte, ok bool) {
	if len(b) == 0 || b[0] != ':' {
		return 0, 0, nil, false
	}
	i := 1
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}
	if i == 1 || i == len(b) || b[i] != '-' {
		return 0, 0, nil, false
	}
	start, _ = strconv.Atoi(string(b[1:i]))
	j := i + 1
	for j < len(b) && b[j] >= '0' && b[j] <= '9' {
		j++
	}
	if j == i+1 {
		return 0, 0, nil, false
	}
	end, _ = strconv.Atoi(string(b[i+1 : j]))
	return start, end, b[j:], true
}

// ParseGAFPath classifies a whole target column as exactly one of an
// oriented walk or a stable identifier. A column that opens with an
// orientation marker must parse completely as steps; a column that
// does not must be a stable identifier free of '<' and '>'.
func ParseGAFPath(b []byte) (GAFPath, error) {
	if len(b) == 0 {
		return GAFPath{}, &gfa.FieldError{Kind: gfa.KindMissingFields}
	}
	if b[0] == '<' || b[0] == '>' {
		var steps []GAFStep
		rest := b
		for len(rest) > 0 {
			step, r, err := ParseGAFStep(rest)
			if err != nil {
				return GAFPath{}, err
			}
			steps = append(steps, step)
			rest = r
		}
		return GAFPath{Steps: steps}, nil
	}
	if bytes.IndexByte(b, '<') >= 0 || bytes.IndexByte(b, '>') >= 0 {
		return GAFPath{}, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "Path"}
	}
	for _, c := range b {
		if c < '!' || c > '~' {
			return GAFPath{}, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "Path"}
		}
	}
	return GAFPath{StableID: string(b)}, nil
}

func parseCol(fields [][]byte, i int, name string) (int, error) {
	if i >= len(fields) {
		return 0, &gfa.FieldError{Kind: gfa.KindMissingFields}
	}
	n, err := strconv.Atoi(string(fields[i]))
	if err != nil || n < 0 {
		return 0, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: name}
	}
	return n, nil
}

func parseNameCol(fields [][]byte, i int, name string) (string, error) {
	if i >= len(fields) {
		return "", &gfa.FieldError{Kind: gfa.KindMissingFields}
	}
	if len(fields[i]) == 0 {
		return "", &gfa.FieldError{Kind: gfa.KindInvalidField, Field: name}
	}
	return string(fields[i]), nil
}

// ParsePAF parses the pre-split columns of one PAF record. Every
// required column is mandatory; there are no defaults.
func ParsePAF[T gfa.TagStorage](fields [][]byte) (PAF[T], error) {
	var (
		p   PAF[T]
		err error
	)
	fail := func(err error) (PAF[T], error) { return PAF[T]{}, err }
	if p.QueryName, err = parseNameCol(fields, 0, "QueryName"); err != nil {
		return fail(err)
	}
	if p.QueryLen, err = parseCol(fields, 1, "QueryLength"); err != nil {
		return fail(err)
	}
	if p.QueryStart, err = parseCol(fields, 2, "QueryStart"); err != nil {
		return fail(err)
	}
	if p.QueryEnd, err = parseCol(fields, 3, "QueryEnd"); err != nil {
		return fail(err)
	}
	if len(fields) <= 4 {
		return fail(&gfa.FieldError{Kind: gfa.KindMissingFields})
	}
	if len(fields[4]) != 1 {
		return fail(&gfa.FieldError{Kind: gfa.KindOrientation})
	}
	if p.Strand, err = gfa.ParseOrientation(fields[4][0]); err != nil {
		return fail(err)
	}
	if p.TargetName, err = parseNameCol(fields, 5, "TargetName"); err != nil {
		return fail(err)
	}
	if p.TargetLen, err = parseCol(fields, 6, "TargetLength"); err != nil {
		return fail(err)
	}
	if p.TargetStart, err = parseCol(fields, 7, "TargetStart"); err != nil {
		return fail(err)
	}
	if p.TargetEnd, err = parseCol(fields, 8, "TargetEnd"); err != nil {
		return fail(err)
	}
	if p.Matches, err = parseCol(fields, 9, "ResidueMatches"); err != nil {
		return fail(err)
	}
	if p.BlockLen, err = parseCol(fields, 10, "BlockLength"); err != nil {
		return fail(err)
	}
	if len(fields) <= 11 {
		return fail(&gfa.FieldError{Kind: gfa.KindMissingFields})
	}
	q, err := strconv.ParseUint(string(fields[11]), 10, 8)
	if err != nil {
		return fail(&gfa.FieldError{Kind: gfa.KindInvalidField, Field: "Quality"})
	}
	p.MapQ = uint8(q)
	if p.Tags, err = gfa.ParseTags[T](fields[12:]); err != nil {
		return fail(err)
	}
	return p, nil
}

// ParseGAF parses the pre-split columns of one GAF record: the flat
// grammar first, then the target column re-parsed as a path.
func ParseGAF[T gfa.TagStorage](fields [][]byte) (GAF[T], error) {
	p, err := ParsePAF[T](fields)
	if err != nil {
		return GAF[T]{}, err
	}
	path, err := ParseGAFPath([]byte(p.TargetName))
	if err != nil {
		return GAF[T]{}, err
	}
	return GAF[T]{
		QueryName:  p.QueryName,
		QueryLen:   p.QueryLen,
		QueryStart: p.QueryStart,
		QueryEnd:   p.QueryEnd,
		Strand:     p.Strand,
		Path:       path,
		PathLen:    p.TargetLen,
		PathStart:  p.TargetStart,
		PathEnd:    p.TargetEnd,
		Matches:    p.Matches,
		BlockLen:   p.BlockLen,
		MapQ:       p.MapQ,
		Tags:       p.Tags,
	}, nil
}

// ParsePAFLine splits one tab-delimited line and parses it, wrapping
// failures with the offending line.
func ParsePAFLine[T gfa.TagStorage](line []byte) (PAF[T], error) {
	if len(line) == 0 {
		return PAF[T]{}, &gfa.LineError{Kind: gfa.LineEmpty}
	}
	p, err := ParsePAF[T](bytes.Split(line, []byte{'\t'}))
	if err != nil {
		return PAF[T]{}, wrapLine(err, line)
	}
	return p, nil
}

// ParseGAFLine splits one tab-delimited line and parses it, wrapping
// failures with the offending line.
func ParseGAFLine[T gfa.TagStorage](line []byte) (GAF[T], error) {
	if len(line) == 0 {
		return GAF[T]{}, &gfa.LineError{Kind: gfa.LineEmpty}
	}
	g, err := ParseGAF[T](bytes.Split(line, []byte{'\t'}))
	if err != nil {
		return GAF[T]{}, wrapLine(err, line)
	}
	return g, nil
}

func wrapLine(err error, line []byte) error {
	fe, ok := err.(*gfa.FieldError)
	if !ok {
		fe = &gfa.FieldError{Kind: gfa.KindUnknown}
	}
	return &gfa.LineError{Kind: gfa.LineInvalid, Field: fe, Line: string(line)}
}

func appendAlignment[T gfa.TagStorage](buf []byte, qname string, qlen, qstart, qend int,
	strand gfa.Orientation, target string, tlen, tstart, tend, matches, block int,
	mapq uint8, tags T) []byte {
	buf = append(buf, qname...)
	for _, n := range []int{qlen, qstart, qend} {
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	buf = append(buf, '\t', strand.Byte(), '\t')
	buf = append(buf, target...)
	for _, n := range []int{tlen, tstart, tend, matches, block, int(mapq)} {
		buf = append(buf, '\t')
		buf = strconv.AppendInt(buf, int64(n), 10)
	}
	return gfa.AppendTags(buf, tags)
}

// String renders the record as one PAF line without its terminator.
func (p PAF[T]) String() string {
	return string(appendAlignment(nil, p.QueryName, p.QueryLen, p.QueryStart, p.QueryEnd,
		p.Strand, p.TargetName, p.TargetLen, p.TargetStart, p.TargetEnd,
		p.Matches, p.BlockLen, p.MapQ, p.Tags))
}

// String renders the record as one GAF line without its terminator.
func (g GAF[T]) String() string {
	return string(appendAlignment(nil, g.QueryName, g.QueryLen, g.QueryStart, g.QueryEnd,
		g.Strand, g.Path.String(), g.PathLen, g.PathStart, g.PathEnd,
		g.Matches, g.BlockLen, g.MapQ, g.Tags))
}
