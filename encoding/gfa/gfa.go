// Package gfa implements the GFA1 (Graphical Fragment Assembly)
// interchange format: the five record kinds (header, segment, link,
// containment, path), the typed optional-tag sub-language shared with
// the alignment formats, and a streaming line reader and writer.
//
// Record types are generic along two axes. The name type N is either
// string (names kept verbatim) or uint64 (dense integer names, reached
// through the all-or-nothing UintIDs projection). The tag policy T is
// either Discard, which validates trailing tag columns and keeps
// nothing, or Capture, which retains them in order.
//
// The package performs no I/O of its own beyond Reader/Writer framing
// and no cross-record validation: a link may reference a segment that
// does not exist.
package gfa

import (
	"strconv"
	"strings"
)

// SegmentID constrains the name representation of graph records:
// verbatim strings, or dense unsigned integers produced by UintIDs.
type SegmentID interface {
	~string | ~uint64
}

// Header is the 'H' record. Version holds the VN:Z: value when
// present; any other header tags land in Tags.
type Header[T TagStorage] struct {
	Version string
	Tags    T
}

// Segment is the 'S' record: a graph node carrying a sequence. A
// sequence of "*" means the sequence is absent.
type Segment[N SegmentID, T TagStorage] struct {
	Name     N
	Sequence string
	Tags     T
}

// Link is the 'L' record: an oriented edge between two segments with
// an overlap, either CIGAR-shaped or "*".
type Link[N SegmentID, T TagStorage] struct {
	From       N
	FromOrient Orientation
	To         N
	ToOrient   Orientation
	Overlap    string
	Tags       T
}

// Containment is the 'C' record: the container segment's sequence
// contains the contained segment's sequence starting at Pos.
type Containment[N SegmentID, T TagStorage] struct {
	Container       N
	ContainerOrient Orientation
	Contained       N
	ContainedOrient Orientation
	Pos             int
	Overlap         string
	Tags            T
}

// Path is the 'P' record: an ordered oriented walk through the graph.
// SegmentNames holds the comma-joined step list unparsed, so a path's
// memory footprint tracks the input bytes rather than the step count;
// Steps returns a lazy decoder over it.
type Path[T TagStorage] struct {
	Name         string
	SegmentNames string
	Overlaps     []string
	Tags         T
}

// Line is one parsed GFA line of any kind, as produced by ParseLine
// and consumed by GFA.Insert and Writer.Write.
type Line[N SegmentID, T TagStorage] interface {
	lineKind() byte
}

func (Header[T]) lineKind() byte         { return 'H' }
func (Segment[N, T]) lineKind() byte     { return 'S' }
func (Link[N, T]) lineKind() byte        { return 'L' }
func (Containment[N, T]) lineKind() byte { return 'C' }
func (Path[T]) lineKind() byte           { return 'P' }

// GFA aggregates the records of one graph. Records are kept in
// insertion order per kind with no deduplication or indexing.
type GFA[N SegmentID, T TagStorage] struct {
	Header       Header[T]
	Segments     []Segment[N, T]
	Links        []Link[N, T]
	Containments []Containment[N, T]
	Paths        []Path[T]
}

// Insert appends a parsed line to the graph, or replaces the header.
func (g *GFA[N, T]) Insert(line Line[N, T]) {
	switch l := line.(type) {
	case Header[T]:
		g.Header = l
	case Segment[N, T]:
		g.Segments = append(g.Segments, l)
	case Link[N, T]:
		g.Links = append(g.Links, l)
	case Containment[N, T]:
		g.Containments = append(g.Containments, l)
	case Path[T]:
		g.Paths = append(g.Paths, l)
	default:
		panic("gfa: Insert: unrecognized line type")
	}
}

func parseUintName(name string) (uint64, error) {
	n, err := strconv.ParseUint(name, 10, 64)
	if err != nil {
		return 0, &FieldError{Kind: KindUintID}
	}
	return n, nil
}

// UintIDs converts every segment name in the graph to an unsigned
// integer. The conversion is all-or-nothing: the first name (including
// names inside path step strings) that fails to parse fails the whole
// projection and nothing is returned. Projecting a graph whose names
// are already integers reproduces the graph.
func UintIDs[T TagStorage](g *GFA[string, T]) (*GFA[uint64, T], error) {
	out := &GFA[uint64, T]{Header: g.Header}
	for _, s := range g.Segments {
		name, err := parseUintName(s.Name)
		if err != nil {
			return nil, err
		}
		out.Segments = append(out.Segments, Segment[uint64, T]{
			Name:     name,
			Sequence: s.Sequence,
			Tags:     s.Tags,
		})
	}
	for _, l := range g.Links {
		from, err := parseUintName(l.From)
		if err != nil {
			return nil, err
		}
		to, err := parseUintName(l.To)
		if err != nil {
			return nil, err
		}
		out.Links = append(out.Links, Link[uint64, T]{
			From:       from,
			FromOrient: l.FromOrient,
			To:         to,
			ToOrient:   l.ToOrient,
			Overlap:    l.Overlap,
			Tags:       l.Tags,
		})
	}
	for _, c := range g.Containments {
		container, err := parseUintName(c.Container)
		if err != nil {
			return nil, err
		}
		contained, err := parseUintName(c.Contained)
		if err != nil {
			return nil, err
		}
		out.Containments = append(out.Containments, Containment[uint64, T]{
			Container:       container,
			ContainerOrient: c.ContainerOrient,
			Contained:       contained,
			ContainedOrient: c.ContainedOrient,
			Pos:             c.Pos,
			Overlap:         c.Overlap,
			Tags:            c.Tags,
		})
	}
	for _, p := range g.Paths {
		if err := p.uintSteps(); err != nil {
			return nil, err
		}
		out.Paths = append(out.Paths, p)
	}
	return out, nil
}

// uintSteps verifies that every step name in the path is all digits.
func (p Path[T]) uintSteps() error {
	it := p.Steps()
	for it.Next() {
		name, _ := it.Step()
		if name == "" {
			return &FieldError{Kind: KindUintID}
		}
		for i := 0; i < len(name); i++ {
			if name[i] < '0' || name[i] > '9' {
				return &FieldError{Kind: KindUintID}
			}
		}
	}
	return it.Err()
}

// StepIter decodes a path's stored step string into (name,
// orientation) pairs one at a time, in the manner of bufio.Scanner.
// Nothing is decoded until Next is called, no per-path slice is
// allocated, and abandoning the iterator mid-walk is safe.
type StepIter struct {
	rest   string
	more   bool
	name   string
	orient Orientation
	err    error
}

// Steps returns a fresh iterator over the path's steps. Each call
// restarts from the stored step string.
func (p Path[T]) Steps() *StepIter {
	return &StepIter{rest: p.SegmentNames, more: p.SegmentNames != ""}
}

// Next advances to the next step. It returns false at the end of the
// walk or on a malformed step; Err distinguishes the two.
func (it *StepIter) Next() bool {
	if !it.more || it.err != nil {
		return false
	}
	frag := it.rest
	if i := strings.IndexByte(it.rest, ','); i >= 0 {
		frag, it.rest = it.rest[:i], it.rest[i+1:]
	} else {
		it.rest = ""
		it.more = false
	}
	if len(frag) == 0 {
		it.err = &FieldError{Kind: KindOrientation}
		return false
	}
	switch frag[len(frag)-1] {
	case '+':
		it.orient = Forward
	case '-':
		it.orient = Backward
	default:
		it.err = &FieldError{Kind: KindOrientation}
		return false
	}
	it.name = frag[:len(frag)-1]
	return true
}

// Step returns the current step. Valid only after Next returned true.
func (it *StepIter) Step() (name string, orient Orientation) {
	return it.name, it.orient
}

// Err returns the first malformed-step error, if any.
func (it *StepIter) Err() error {
	return it.err
}
