package gfa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

func formatName[N SegmentID](n N) string {
	switch v := any(n).(type) {
	case string:
		return v
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return fmt.Sprint(n)
}

func (h Header[T]) appendLine(buf []byte) []byte {
	buf = append(buf, 'H')
	if h.Version != "" {
		buf = append(buf, "\tVN:Z:"...)
		buf = append(buf, h.Version...)
	}
	return AppendTags(buf, h.Tags)
}

func (s Segment[N, T]) appendLine(buf []byte) []byte {
	buf = append(buf, 'S', '\t')
	buf = append(buf, formatName(s.Name)...)
	buf = append(buf, '\t')
	buf = append(buf, s.Sequence...)
	return AppendTags(buf, s.Tags)
}

func (l Link[N, T]) appendLine(buf []byte) []byte {
	buf = append(buf, 'L', '\t')
	buf = append(buf, formatName(l.From)...)
	buf = append(buf, '\t', l.FromOrient.Byte(), '\t')
	buf = append(buf, formatName(l.To)...)
	buf = append(buf, '\t', l.ToOrient.Byte(), '\t')
	buf = append(buf, l.Overlap...)
	return AppendTags(buf, l.Tags)
}

func (c Containment[N, T]) appendLine(buf []byte) []byte {
	buf = append(buf, 'C', '\t')
	buf = append(buf, formatName(c.Container)...)
	buf = append(buf, '\t', c.ContainerOrient.Byte(), '\t')
	buf = append(buf, formatName(c.Contained)...)
	buf = append(buf, '\t', c.ContainedOrient.Byte(), '\t')
	buf = strconv.AppendInt(buf, int64(c.Pos), 10)
	buf = append(buf, '\t')
	buf = append(buf, c.Overlap...)
	return AppendTags(buf, c.Tags)
}

func (p Path[T]) appendLine(buf []byte) []byte {
	buf = append(buf, 'P', '\t')
	buf = append(buf, p.Name...)
	buf = append(buf, '\t')
	buf = append(buf, p.SegmentNames...)
	buf = append(buf, '\t')
	if len(p.Overlaps) == 0 {
		buf = append(buf, '*')
	}
	for i, o := range p.Overlaps {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, o...)
	}
	return AppendTags(buf, p.Tags)
}

// String renders the record as one GFA line without its terminator.
// Parsing a valid line and rendering the record reproduces the line
// byte-exactly, with captured tags in their input order.
func (h Header[T]) String() string         { return string(h.appendLine(nil)) }
func (s Segment[N, T]) String() string     { return string(s.appendLine(nil)) }
func (l Link[N, T]) String() string        { return string(l.appendLine(nil)) }
func (c Containment[N, T]) String() string { return string(c.appendLine(nil)) }
func (p Path[T]) String() string           { return string(p.appendLine(nil)) }

// EncodeLine renders any parsed line. It is the inverse of ParseLine.
func EncodeLine[N SegmentID, T TagStorage](line Line[N, T]) string {
	switch l := line.(type) {
	case Header[T]:
		return l.String()
	case Segment[N, T]:
		return l.String()
	case Link[N, T]:
		return l.String()
	case Containment[N, T]:
		return l.String()
	case Path[T]:
		return l.String()
	}
	panic("gfa: EncodeLine: unrecognized line type")
}

// Writer emits GFA records as newline-terminated lines.
type Writer[N SegmentID, T TagStorage] struct {
	w   *bufio.Writer
	buf []byte
	err error
}

// NewWriter returns a Writer emitting to w. Call Flush when done.
func NewWriter[N SegmentID, T TagStorage](w io.Writer) *Writer[N, T] {
	return &Writer[N, T]{w: bufio.NewWriter(w)}
}

// Write emits one record line.
func (w *Writer[N, T]) Write(line Line[N, T]) error {
	if w.err != nil {
		return w.err
	}
	w.buf = append(w.buf[:0], EncodeLine[N, T](line)...)
	w.buf = append(w.buf, '\n')
	_, w.err = w.w.Write(w.buf)
	return w.err
}

// WriteGraph emits the whole graph: header first (if it carries a
// version or any tags; a bare 'H' is not re-emitted), then segments,
// links, containments and paths in their stored order.
func (w *Writer[N, T]) WriteGraph(g *GFA[N, T]) error {
	if g.Header.Version != "" || len(any(g.Header.Tags).(tagSource).tags()) > 0 {
		if err := w.Write(g.Header); err != nil {
			return err
		}
	}
	for _, s := range g.Segments {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	for _, l := range g.Links {
		if err := w.Write(l); err != nil {
			return err
		}
	}
	for _, c := range g.Containments {
		if err := w.Write(c); err != nil {
			return err
		}
	}
	for _, p := range g.Paths {
		if err := w.Write(p); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered output to the underlying writer.
func (w *Writer[N, T]) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}
