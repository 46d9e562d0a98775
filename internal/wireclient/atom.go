package wireclient

import (
	"encoding/binary"

	"github.com/deadlytoah/heartbeat2/internal/faults"
	"github.com/deadlytoah/heartbeat2/internal/keyword"
)

// atomKind tags the two shapes a wire atom may take, matching the
// two variants the original socket module exchanges over its
// request/reply pairing: bare keywords and UTF-8 strings.
type atomKind uint8

const (
	atomKeyword atomKind = iota
	atomString
)

// Atom is one element of a multipart request or reply, equivalent
// to the original implementation's Sexp::Keyword/Sexp::String pair
// as carried over the wire.
type Atom struct {
	kind atomKind
	text string
}

// Keyword wraps k as a wire atom.
func Keyword(k keyword.Keyword) Atom {
	return Atom{kind: atomKeyword, text: k.Name()}
}

// String wraps s as a wire atom.
func String(s string) Atom {
	return Atom{kind: atomString, text: s}
}

// IsKeyword reports whether the atom is a keyword and, if so, the
// keyword itself.
func (a Atom) IsKeyword() (keyword.Keyword, bool) {
	if a.kind != atomKeyword {
		return keyword.Keyword{}, false
	}
	return keyword.New(a.text), true
}

// Text returns the atom's raw text, regardless of kind.
func (a Atom) Text() string {
	return a.text
}

// Equal reports whether the atom is a keyword equal to k.
func (a Atom) Equal(k keyword.Keyword) bool {
	kw, ok := a.IsKeyword()
	return ok && kw.Equal(k)
}

// mangos carries a single opaque byte message per request/reply, with
// no native concept of multiple frames (unlike the ZeroMQ sockets the
// original implementation pairs over). encodeAtoms/decodeAtoms frame
// a slice of Atoms into one such message: a 2-byte count, then per
// atom a 1-byte kind tag, a 4-byte length, and the raw UTF-8 text.
func encodeAtoms(atoms []Atom) []byte {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, uint16(len(atoms)))
	for _, a := range atoms {
		buf = append(buf, byte(a.kind))
		lenBuf := make([]byte, 4)
		binary.BigEndian.PutUint32(lenBuf, uint32(len(a.text)))
		buf = append(buf, lenBuf...)
		buf = append(buf, a.text...)
	}
	return buf
}

func decodeAtoms(buf []byte) ([]Atom, error) {
	if len(buf) < 2 {
		return nil, faults.New(faults.StringEncoding, "truncated atom count")
	}
	count := binary.BigEndian.Uint16(buf)
	buf = buf[2:]

	atoms := make([]Atom, 0, count)
	for i := uint16(0); i < count; i++ {
		if len(buf) < 5 {
			return nil, faults.New(faults.StringEncoding, "truncated atom header")
		}
		kind := atomKind(buf[0])
		n := binary.BigEndian.Uint32(buf[1:5])
		buf = buf[5:]
		if uint32(len(buf)) < n {
			return nil, faults.New(faults.StringEncoding, "truncated atom text")
		}
		text := string(buf[:n])
		buf = buf[n:]
		if kind != atomKeyword && kind != atomString {
			return nil, faults.New(faults.StringEncoding, "unknown atom kind")
		}
		atoms = append(atoms, Atom{kind: kind, text: text})
	}
	if len(buf) != 0 {
		return nil, faults.New(faults.StringEncoding, "trailing bytes after atoms")
	}
	return atoms, nil
}
