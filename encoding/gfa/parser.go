package gfa

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// MaxLineBytes caps the length of a single input line. Path step
// lists can make 'P' lines very long on large graphs. Drivers that
// tokenize a stream themselves should apply the same cap.
const MaxLineBytes = 64 * 1024 * 1024

// ParseLine parses one GFA line, without its terminator, into a typed
// record. The returned error is always a *LineError; empty lines and
// unrecognized record markers are the two recoverable kinds.
func ParseLine[T TagStorage](line []byte) (Line[string, T], error) {
	if len(line) == 0 {
		return nil, &LineError{Kind: LineEmpty}
	}
	if !utf8.Valid(line) {
		return nil, invalidLine(&FieldError{Kind: KindUTF8}, line)
	}
	fields := bytes.Split(line, []byte{'\t'})
	if len(fields[0]) != 1 {
		return nil, &LineError{Kind: LineUnknownType}
	}
	rest := fields[1:]
	var (
		parsed Line[string, T]
		err    error
	)
	switch fields[0][0] {
	case 'H':
		parsed, err = ParseHeader[T](rest)
	case 'S':
		parsed, err = ParseSegment[T](rest)
	case 'L':
		parsed, err = ParseLink[T](rest)
	case 'C':
		parsed, err = ParseContainment[T](rest)
	case 'P':
		parsed, err = ParsePath[T](rest)
	default:
		return nil, &LineError{Kind: LineUnknownType}
	}
	if err != nil {
		return nil, invalidLine(asFieldError(err), line)
	}
	return parsed, nil
}

// ParseHeader parses the fields of an 'H' line after the record
// marker. The first VN:Z: tag becomes the version; every other field
// goes through the tag codec under T.
func ParseHeader[T TagStorage](fields [][]byte) (Header[T], error) {
	var h Header[T]
	sink := any(&h.Tags).(tagSink)
	for _, f := range fields {
		tag, err := ParseOptTag(f)
		if err != nil {
			return Header[T]{}, err
		}
		if h.Version == "" && tag.Tag == [2]byte{'V', 'N'} {
			if s, ok := tag.Value.(Str); ok {
				h.Version = string(s)
				continue
			}
		}
		sink.add(tag)
	}
	return h, nil
}

// ParseSegment parses the fields of an 'S' line after the record
// marker: name, sequence, then optional tags.
func ParseSegment[T TagStorage](fields [][]byte) (Segment[string, T], error) {
	if len(fields) < 2 {
		return Segment[string, T]{}, missingFields()
	}
	name, err := parseName(fields[0], "Name")
	if err != nil {
		return Segment[string, T]{}, err
	}
	seq, err := parseSequence(fields[1])
	if err != nil {
		return Segment[string, T]{}, err
	}
	tags, err := ParseTags[T](fields[2:])
	if err != nil {
		return Segment[string, T]{}, err
	}
	return Segment[string, T]{Name: name, Sequence: seq, Tags: tags}, nil
}

// ParseLink parses the fields of an 'L' line after the record marker:
// from, from-orient, to, to-orient, overlap, then optional tags.
func ParseLink[T TagStorage](fields [][]byte) (Link[string, T], error) {
	if len(fields) < 5 {
		return Link[string, T]{}, missingFields()
	}
	from, err := parseName(fields[0], "From")
	if err != nil {
		return Link[string, T]{}, err
	}
	fromOrient, err := parseOrientField(fields[1])
	if err != nil {
		return Link[string, T]{}, err
	}
	to, err := parseName(fields[2], "To")
	if err != nil {
		return Link[string, T]{}, err
	}
	toOrient, err := parseOrientField(fields[3])
	if err != nil {
		return Link[string, T]{}, err
	}
	overlap, err := parseOverlap(fields[4])
	if err != nil {
		return Link[string, T]{}, err
	}
	tags, err := ParseTags[T](fields[5:])
	if err != nil {
		return Link[string, T]{}, err
	}
	return Link[string, T]{
		From:       from,
		FromOrient: fromOrient,
		To:         to,
		ToOrient:   toOrient,
		Overlap:    overlap,
		Tags:       tags,
	}, nil
}

// ParseContainment parses the fields of a 'C' line after the record
// marker: container, container-orient, contained, contained-orient,
// position, overlap, then optional tags.
func ParseContainment[T TagStorage](fields [][]byte) (Containment[string, T], error) {
	if len(fields) < 6 {
		return Containment[string, T]{}, missingFields()
	}
	container, err := parseName(fields[0], "Container")
	if err != nil {
		return Containment[string, T]{}, err
	}
	containerOrient, err := parseOrientField(fields[1])
	if err != nil {
		return Containment[string, T]{}, err
	}
	contained, err := parseName(fields[2], "Contained")
	if err != nil {
		return Containment[string, T]{}, err
	}
	containedOrient, err := parseOrientField(fields[3])
	if err != nil {
		return Containment[string, T]{}, err
	}
	pos, err := strconv.Atoi(string(fields[4]))
	if err != nil || pos < 0 {
		return Containment[string, T]{}, invalidField("Position")
	}
	overlap, err := parseOverlap(fields[5])
	if err != nil {
		return Containment[string, T]{}, err
	}
	tags, err := ParseTags[T](fields[6:])
	if err != nil {
		return Containment[string, T]{}, err
	}
	return Containment[string, T]{
		Container:       container,
		ContainerOrient: containerOrient,
		Contained:       contained,
		ContainedOrient: containedOrient,
		Pos:             pos,
		Overlap:         overlap,
		Tags:            tags,
	}, nil
}

// ParsePath parses the fields of a 'P' line after the record marker:
// path name, comma-joined step string (kept unparsed), comma-joined
// per-step overlaps, then optional tags.
func ParsePath[T TagStorage](fields [][]byte) (Path[T], error) {
	if len(fields) < 3 {
		return Path[T]{}, missingFields()
	}
	name, err := parseName(fields[0], "PathName")
	if err != nil {
		return Path[T]{}, err
	}
	if len(fields[1]) == 0 {
		return Path[T]{}, invalidField("SegmentNames")
	}
	overlaps, err := parsePathOverlaps(fields[2])
	if err != nil {
		return Path[T]{}, err
	}
	tags, err := ParseTags[T](fields[3:])
	if err != nil {
		return Path[T]{}, err
	}
	return Path[T]{
		Name:         name,
		SegmentNames: string(fields[1]),
		Overlaps:     overlaps,
		Tags:         tags,
	}, nil
}

// Names are printable and exclude '*' and '=' in the leading position,
// per the GFA1 grammar.
func parseName(field []byte, specName string) (string, error) {
	if len(field) == 0 {
		return "", invalidField(specName)
	}
	for i, b := range field {
		if !isPrintable(b) || (i == 0 && (b == '*' || b == '=')) {
			return "", invalidField(specName)
		}
	}
	return string(field), nil
}

func parseSequence(field []byte) (string, error) {
	if len(field) == 0 {
		return "", invalidField("Sequence")
	}
	for _, b := range field {
		if !isPrintable(b) {
			return "", invalidField("Sequence")
		}
	}
	return string(field), nil
}

func parseOrientField(field []byte) (Orientation, error) {
	if len(field) != 1 {
		return Forward, &FieldError{Kind: KindOrientation}
	}
	return ParseOrientation(field[0])
}

// An overlap column is "*" or one or more CIGAR-shaped runs.
func parseOverlap(field []byte) (string, error) {
	if !validOverlap(field) {
		return "", invalidField("Overlap")
	}
	return string(field), nil
}

func parsePathOverlaps(field []byte) ([]string, error) {
	if len(field) == 0 {
		return nil, invalidField("Overlaps")
	}
	parts := bytes.Split(field, []byte{','})
	overlaps := make([]string, 0, len(parts))
	for _, p := range parts {
		o, err := parseOverlap(p)
		if err != nil {
			return nil, err
		}
		overlaps = append(overlaps, o)
	}
	return overlaps, nil
}

func validOverlap(field []byte) bool {
	if len(field) == 0 {
		return false
	}
	if len(field) == 1 && field[0] == '*' {
		return true
	}
	i := 0
	for i < len(field) {
		start := i
		for i < len(field) && field[i] >= '0' && field[i] <= '9' {
			i++
		}
		if i == start || i == len(field) {
			return false
		}
		switch field[i] {
		case 'M', 'I', 'D', 'N', 'S', 'H', 'P', 'X', '=':
			i++
		default:
			return false
		}
	}
	return true
}

// Reader is a driving loop over the lines of a GFA stream. It skips
// the two recoverable line kinds (empty lines and unrecognized record
// markers, including '#' comments) and stops at the first fatal error.
//
// Readers are not threadsafe, but the records they produce are
// independent and may be handed to other goroutines freely.
type Reader[T TagStorage] struct {
	scanner *bufio.Scanner
	line    Line[string, T]
	err     error
}

// NewReader returns a Reader consuming newline-terminated GFA lines
// from r.
func NewReader[T TagStorage](r io.Reader) *Reader[T] {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, MaxLineBytes)
	return &Reader[T]{scanner: sc}
}

// Scan advances to the next parseable line, returning false at end of
// stream or on a fatal error. Once Scan returns false it never
// returns true again; check Err afterwards.
func (r *Reader[T]) Scan() bool {
	if r.err != nil {
		return false
	}
	for r.scanner.Scan() {
		line, err := ParseLine[T](r.scanner.Bytes())
		if err != nil {
			if le, ok := err.(*LineError); ok && le.Recoverable() {
				continue
			}
			r.err = err
			return false
		}
		r.line = line
		return true
	}
	if err := r.scanner.Err(); err != nil {
		r.err = &LineError{Kind: LineIO, Err: errors.Wrap(err, "reading GFA stream")}
	}
	return false
}

// Line returns the record parsed by the last successful Scan.
func (r *Reader[T]) Line() Line[string, T] {
	return r.line
}

// Err returns the fatal error that stopped the Reader, if any.
func (r *Reader[T]) Err() error {
	return r.err
}

// ReadGraph accumulates every record of the stream into a GFA
// container, in input order.
func ReadGraph[T TagStorage](r io.Reader) (*GFA[string, T], error) {
	g := &GFA[string, T]{}
	rd := NewReader[T](r)
	for rd.Scan() {
		g.Insert(rd.Line())
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	return g, nil
}
