package gaf

import (
	"strconv"

	"github.com/grailbio/gfa/encoding/gfa"
	"github.com/biogo/hts/sam"
)

// CigarOpType is one of the nine alignment operation codes.
type CigarOpType uint8

const (
	// CigarMatch is 'M': an alignment match or mismatch.
	CigarMatch CigarOpType = iota
	// CigarInsertion is 'I': an insertion relative to the target.
	CigarInsertion
	// CigarDeletion is 'D': a deletion relative to the target.
	CigarDeletion
	// CigarSkipped is 'N': a skipped region of the target.
	CigarSkipped
	// CigarSoftClipped is 'S': query bases present but not aligned.
	CigarSoftClipped
	// CigarHardClipped is 'H': query bases removed from the record.
	CigarHardClipped
	// CigarPadded is 'P': silent deletion from a padded target.
	CigarPadded
	// CigarEqual is '=': an exact sequence match.
	CigarEqual
	// CigarMismatch is 'X': a sequence mismatch.
	CigarMismatch
)

// The byte table is shared by the parser and the printer, so a parsed
// CIGAR always redisplays through the symbols it was read from.
var cigarOpBytes = [...]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P', '=', 'X'}

// Byte returns the operation's symbol.
func (t CigarOpType) Byte() byte {
	return cigarOpBytes[t]
}

func (t CigarOpType) String() string {
	return string(t.Byte())
}

func cigarOpTypeFrom(b byte) (CigarOpType, bool) {
	for i, c := range cigarOpBytes {
		if c == b {
			return CigarOpType(i), true
		}
	}
	return 0, false
}

// CigarOp is one run: a non-negative length and an operation.
type CigarOp struct {
	Len uint32
	Op  CigarOpType
}

// Cigar is a run-length encoded alignment description, ordered left to
// right along the alignment. A valid Cigar has at least one run.
type Cigar []CigarOp

// ParseCigarPrefix parses the longest valid run of CIGAR operations at
// the start of b and returns the remainder. At least one run is
// required; a digit run not followed by an operation byte, or a run
// length overflowing 32 bits, is an error.
func ParseCigarPrefix(b []byte) (Cigar, []byte, error) {
	var c Cigar
	i := 0
	for i < len(b) {
		start := i
		for i < len(b) && b[i] >= '0' && b[i] <= '9' {
			i++
		}
		if i == start {
			break
		}
		if i == len(b) {
			return nil, nil, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "CIGAR"}
		}
		op, ok := cigarOpTypeFrom(b[i])
		if !ok {
			if len(c) > 0 {
				// The digits belong to whatever follows the
				// maximal valid prefix.
				i = start
				break
			}
			return nil, nil, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "CIGAR"}
		}
		n, err := strconv.ParseUint(string(b[start:i]), 10, 32)
		if err != nil {
			return nil, nil, &gfa.FieldError{Kind: gfa.KindParse}
		}
		c = append(c, CigarOp{Len: uint32(n), Op: op})
		i++
	}
	if len(c) == 0 {
		return nil, nil, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "CIGAR"}
	}
	return c, b[i:], nil
}

// ParseCigar parses b as a complete CIGAR string.
func ParseCigar(b []byte) (Cigar, error) {
	c, rest, err := ParseCigarPrefix(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "CIGAR"}
	}
	return c, nil
}

// Append appends the textual form of the CIGAR to buf.
func (c Cigar) Append(buf []byte) []byte {
	for _, op := range c {
		buf = strconv.AppendUint(buf, uint64(op.Len), 10)
		buf = append(buf, op.Op.Byte())
	}
	return buf
}

// String reproduces the parsed bytes exactly.
func (c Cigar) String() string {
	return string(c.Append(nil))
}

var toSAMOp = [...]sam.CigarOpType{
	CigarMatch:       sam.CigarMatch,
	CigarInsertion:   sam.CigarInsertion,
	CigarDeletion:    sam.CigarDeletion,
	CigarSkipped:     sam.CigarSkipped,
	CigarSoftClipped: sam.CigarSoftClipped,
	CigarHardClipped: sam.CigarHardClipped,
	CigarPadded:      sam.CigarPadded,
	CigarEqual:       sam.CigarEqual,
	CigarMismatch:    sam.CigarMismatch,
}

// ToSAM converts the CIGAR for use with the hts/sam record types.
func (c Cigar) ToSAM() sam.Cigar {
	out := make(sam.Cigar, 0, len(c))
	for _, op := range c {
		out = append(out, sam.NewCigarOp(toSAMOp[op.Op], int(op.Len)))
	}
	return out
}

// FromSAM converts an hts/sam CIGAR. The 'B' back operation has no
// textual form in the nine-code table and is rejected.
func FromSAM(sc sam.Cigar) (Cigar, error) {
	out := make(Cigar, 0, len(sc))
	for _, op := range sc {
		var t CigarOpType
		switch op.Type() {
		case sam.CigarMatch:
			t = CigarMatch
		case sam.CigarInsertion:
			t = CigarInsertion
		case sam.CigarDeletion:
			t = CigarDeletion
		case sam.CigarSkipped:
			t = CigarSkipped
		case sam.CigarSoftClipped:
			t = CigarSoftClipped
		case sam.CigarHardClipped:
			t = CigarHardClipped
		case sam.CigarPadded:
			t = CigarPadded
		case sam.CigarEqual:
			t = CigarEqual
		case sam.CigarMismatch:
			t = CigarMismatch
		default:
			return nil, &gfa.FieldError{Kind: gfa.KindInvalidField, Field: "CIGAR"}
		}
		out = append(out, CigarOp{Len: uint32(op.Len()), Op: t})
	}
	return out, nil
}
