package main

import (
	"bufio"
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/gfa/encoding/gaf"
	"github.com/grailbio/gfa/encoding/gfa"
)

func validate(path, format string) error {
	ctx := vcontext.Background()
	in, err := openInput(ctx, path)
	if err != nil {
		return err
	}
	defer in.Close() // nolint: errcheck

	var n int
	switch format {
	case "gfa":
		r := gfa.NewReader[gfa.Capture](in)
		for r.Scan() {
			if err = checkOverlaps(r.Line()); err != nil {
				break
			}
			n++
		}
		if err == nil {
			err = r.Err()
		}
	case "gaf", "paf":
		sc := bufio.NewScanner(in)
		sc.Buffer(nil, gfa.MaxLineBytes)
		for sc.Scan() {
			if len(sc.Bytes()) == 0 {
				continue
			}
			if format == "gaf" {
				_, err = gaf.ParseGAFLine[gfa.Capture](sc.Bytes())
			} else {
				_, err = gaf.ParsePAFLine[gfa.Capture](sc.Bytes())
			}
			if err != nil {
				break
			}
			n++
		}
		if err == nil {
			err = sc.Err()
		}
	default:
		return fmt.Errorf("unknown format %q; expected gfa, gaf or paf", format)
	}
	if err != nil {
		log.Error.Printf("%s: invalid after %d records: %v", path, n, err)
		return err
	}
	log.Printf("%s: %d valid records", path, n)
	return nil
}

// checkOverlaps parses every non-"*" overlap column as a CIGAR. The
// line grammar only checks overlap shape; this catches run lengths that
// overflow 32 bits.
func checkOverlaps(line gfa.Line[string, gfa.Capture]) error {
	check := func(ov string) error {
		if ov == "*" {
			return nil
		}
		_, err := gaf.ParseCigar([]byte(ov))
		return err
	}
	switch l := line.(type) {
	case gfa.Link[string, gfa.Capture]:
		return check(l.Overlap)
	case gfa.Containment[string, gfa.Capture]:
		return check(l.Overlap)
	case gfa.Path[gfa.Capture]:
		for _, ov := range l.Overlaps {
			if err := check(ov); err != nil {
				return err
			}
		}
	}
	return nil
}
