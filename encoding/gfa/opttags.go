package gfa

import (
	"bytes"
	"strconv"
)

// The optional tag sub-language attached to every GFA record mirrors
// SAM auxiliary fields: each trailing column is "XX:t:value" where XX
// is a two-character tag name and t one of the seven type characters
// AifZJHB. The set of type characters is closed; a tag whose payload
// is malformed fails the containing line even when nothing captures
// the tag afterwards.

// OptValue is the typed payload of an optional tag. Exactly one of
// Char, Int, Float, Str, JSON, Hex, IntArray and FloatArray implements
// it per type character.
type OptValue interface {
	// Type returns the tag type character: one of AifZJHB.
	Type() byte
	appendTo(buf []byte) []byte
}

// Char is an 'A' value: a single printable character.
type Char byte

// Int is an 'i' value: a signed 64-bit integer.
type Int int64

// Float is an 'f' value: a 32-bit float.
type Float float32

// Str is a 'Z' value: a printable string, spaces permitted.
type Str string

// JSON is a 'J' value. The content is carried verbatim; it is not
// validated as JSON.
type JSON string

// Hex is an 'H' value. Each element is one 4-bit value decoded from
// one hex digit. The external spec describes 'H' as a byte array
// (digit pairs); the reference decoder works digit-by-digit and this
// codec preserves that behavior so round-trips stay exact.
type Hex []byte

// IntArray is a 'B' value with an integer subtype (one of cCsSiI).
// The subtype is retained so re-encoding is byte-identical.
type IntArray struct {
	Subtype byte
	Vals    []int64
}

// FloatArray is a 'B' value with subtype 'f'.
type FloatArray []float32

func (Char) Type() byte       { return 'A' }
func (Int) Type() byte        { return 'i' }
func (Float) Type() byte      { return 'f' }
func (Str) Type() byte        { return 'Z' }
func (JSON) Type() byte       { return 'J' }
func (Hex) Type() byte        { return 'H' }
func (IntArray) Type() byte   { return 'B' }
func (FloatArray) Type() byte { return 'B' }

const hexDigits = "0123456789ABCDEF"

func (v Char) appendTo(buf []byte) []byte { return append(buf, byte(v)) }

func (v Int) appendTo(buf []byte) []byte {
	return strconv.AppendInt(buf, int64(v), 10)
}

func (v Float) appendTo(buf []byte) []byte {
	return strconv.AppendFloat(buf, float64(v), 'g', -1, 32)
}

func (v Str) appendTo(buf []byte) []byte  { return append(buf, v...) }
func (v JSON) appendTo(buf []byte) []byte { return append(buf, v...) }

func (v Hex) appendTo(buf []byte) []byte {
	for _, b := range v {
		buf = append(buf, hexDigits[b&0xf])
	}
	return buf
}

func (v IntArray) appendTo(buf []byte) []byte {
	buf = append(buf, v.Subtype)
	for _, n := range v.Vals {
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, n, 10)
	}
	return buf
}

func (v FloatArray) appendTo(buf []byte) []byte {
	buf = append(buf, 'f')
	for _, f := range v {
		buf = append(buf, ',')
		buf = strconv.AppendFloat(buf, float64(f), 'g', -1, 32)
	}
	return buf
}

// OptTag is one optional tag: a two-character name and a typed value.
// Names are not required to be unique within a record; queries on a
// captured set use first-match-wins.
type OptTag struct {
	Tag   [2]byte
	Value OptValue
}

// Append appends the tag's "XX:t:value" form to buf.
func (t OptTag) Append(buf []byte) []byte {
	buf = append(buf, t.Tag[0], t.Tag[1], ':', t.Value.Type(), ':')
	return t.Value.appendTo(buf)
}

func (t OptTag) String() string {
	return string(t.Append(nil))
}

// Tag builds an OptTag from a two-character name. It panics if the
// name is not exactly two bytes; names come from the fixed GFA/SAM tag
// vocabulary, so a bad length is a programming error.
func Tag(name string, value OptValue) OptTag {
	if len(name) != 2 {
		panic("gfa: tag name must be exactly two characters: " + name)
	}
	return OptTag{Tag: [2]byte{name[0], name[1]}, Value: value}
}

func isPrintable(b byte) bool      { return b >= '!' && b <= '~' }
func isPrintableSpace(b byte) bool { return b >= ' ' && b <= '~' }

func isTagName(a, b byte) bool {
	letter := func(c byte) bool {
		return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
	}
	digit := func(c byte) bool { return c >= '0' && c <= '9' }
	return letter(a) && (letter(b) || digit(b))
}

func hexNibble(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	}
	return 0, false
}

// ParseOptTag parses one "XX:t:value" column. A type character outside
// AifZJHB yields a KindUnknownTagType error; a malformed payload for a
// known type yields a KindParse or KindInvalidField error.
func ParseOptTag(field []byte) (OptTag, error) {
	if len(field) < 5 || field[2] != ':' || field[4] != ':' {
		return OptTag{}, invalidField("Optional tag")
	}
	if !isTagName(field[0], field[1]) {
		return OptTag{}, invalidField("Optional tag name")
	}
	val, err := parseOptValue(field[3], field[5:])
	if err != nil {
		return OptTag{}, err
	}
	return OptTag{Tag: [2]byte{field[0], field[1]}, Value: val}, nil
}

func parseOptValue(typ byte, val []byte) (OptValue, error) {
	switch typ {
	case 'A':
		if len(val) != 1 || !isPrintable(val[0]) {
			return nil, &FieldError{Kind: KindParse}
		}
		return Char(val[0]), nil
	case 'i':
		n, err := strconv.ParseInt(string(val), 10, 64)
		if err != nil {
			return nil, &FieldError{Kind: KindParse}
		}
		return Int(n), nil
	case 'f':
		f, err := strconv.ParseFloat(string(val), 32)
		if err != nil {
			return nil, &FieldError{Kind: KindParse}
		}
		return Float(f), nil
	case 'Z', 'J':
		for _, b := range val {
			if !isPrintableSpace(b) {
				return nil, &FieldError{Kind: KindParse}
			}
		}
		if typ == 'J' {
			return JSON(val), nil
		}
		return Str(val), nil
	case 'H':
		out := make(Hex, len(val))
		for i, b := range val {
			n, ok := hexNibble(b)
			if !ok {
				return nil, &FieldError{Kind: KindParse}
			}
			out[i] = n
		}
		return out, nil
	case 'B':
		return parseArrayValue(val)
	}
	return nil, &FieldError{Kind: KindUnknownTagType}
}

func parseArrayValue(val []byte) (OptValue, error) {
	if len(val) == 0 {
		return nil, &FieldError{Kind: KindParse}
	}
	sub := val[0]
	var items [][]byte
	if len(val) > 1 {
		if val[1] != ',' {
			return nil, &FieldError{Kind: KindParse}
		}
		items = bytes.Split(val[2:], []byte{','})
	}
	if sub == 'f' {
		out := make(FloatArray, 0, len(items))
		for _, it := range items {
			f, err := strconv.ParseFloat(string(it), 32)
			if err != nil {
				return nil, &FieldError{Kind: KindParse}
			}
			out = append(out, float32(f))
		}
		return out, nil
	}
	switch sub {
	case 'c', 'C', 's', 'S', 'i', 'I':
	default:
		return nil, &FieldError{Kind: KindParse}
	}
	out := IntArray{Subtype: sub, Vals: make([]int64, 0, len(items))}
	for _, it := range items {
		n, err := strconv.ParseInt(string(it), 10, 64)
		if err != nil {
			return nil, &FieldError{Kind: KindParse}
		}
		out.Vals = append(out.Vals, n)
	}
	return out, nil
}

// Discard is the TagStorage policy that validates every trailing tag
// column but retains nothing. It costs no memory per record.
type Discard struct{}

// Capture is the TagStorage policy that retains every parsed tag in
// input order.
type Capture []OptTag

// TagStorage selects, at compose time, what a record grammar does with
// trailing optional tag columns. Record types are generic over it so
// discarding tags introduces no runtime branching or allocation.
type TagStorage interface {
	Discard | Capture
}

type tagSink interface{ add(OptTag) }

type tagSource interface{ tags() []OptTag }

func (*Discard) add(OptTag) {}

func (Discard) tags() []OptTag { return nil }

func (c *Capture) add(t OptTag) { *c = append(*c, t) }

func (c Capture) tags() []OptTag { return c }

// Get returns the value of the first tag with the given two-character
// name.
func (c Capture) Get(name string) (OptValue, bool) {
	for _, t := range c {
		if len(name) == 2 && t.Tag[0] == name[0] && t.Tag[1] == name[1] {
			return t.Value, true
		}
	}
	return nil, false
}

// Remove deletes the first tag with the given name and returns its
// value, leaving the remaining tags in order. It is used to peel out
// well-known tags (RC, KC, MQ, ...) before treating the rest as
// free-form annotations.
func (c *Capture) Remove(name string) (OptValue, bool) {
	if len(name) != 2 {
		return nil, false
	}
	for i, t := range *c {
		if t.Tag[0] == name[0] && t.Tag[1] == name[1] {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return t.Value, true
		}
	}
	return nil, false
}

// ParseTags runs every remaining column through the tag codec under
// the policy T. Tags are validated even when T is Discard.
func ParseTags[T TagStorage](fields [][]byte) (T, error) {
	var out T
	sink := any(&out).(tagSink)
	for _, f := range fields {
		tag, err := ParseOptTag(f)
		if err != nil {
			var zero T
			return zero, err
		}
		sink.add(tag)
	}
	return out, nil
}

// AppendTags appends "\tXX:t:value" for every captured tag. Under
// Discard it appends nothing.
func AppendTags[T TagStorage](buf []byte, tags T) []byte {
	for _, t := range any(tags).(tagSource).tags() {
		buf = append(buf, '\t')
		buf = t.Append(buf)
	}
	return buf
}
