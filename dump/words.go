// Package dump reads and writes lists of raw words taken from a host.
//
// Words arrive as JSON arrays, usually printed by a debugger, and are stored
// as CBOR snapshots that carry the layout they were taken under.
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/delaneyj/toolbelt"
	"github.com/minio/simdjson-go"
	"github.com/starfederation/lispobj"
)

var wordPool = toolbelt.New(func() []lispobj.Object { return make([]lispobj.Object, 0, 64) })

// ParseWord reads one word. Negative decimals are signed host words and are
// truncated to l's width; hexadecimal ("0x...") and non-negative decimals are
// taken as the word's bits, unchanged.
func ParseWord(l *lispobj.Layout, s string) (lispobj.Object, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		u, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return lispobj.Nil, fmt.Errorf("word %q: %w", s, err)
		}
		return lispobj.Object(u), nil
	}
	if strings.HasPrefix(s, "-") {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return lispobj.Nil, fmt.Errorf("word %q: %w", s, err)
		}
		return l.Wrap(v), nil
	}
	u, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return lispobj.Nil, fmt.Errorf("word %q: %w", s, err)
	}
	return lispobj.Object(u), nil
}

// ParseWords reads a JSON array whose elements are integers or strings
// accepted by ParseWord.
func ParseWords(l *lispobj.Layout, data []byte) ([]lispobj.Object, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("json input is empty")
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("json input must be an array of words")
	}
	if !simdjson.SupportedCPU() {
		return parseWordsStd(l, trimmed)
	}

	parsed, err := simdjson.Parse(trimmed, nil)
	if err != nil {
		return nil, err
	}
	it := parsed.Iter()
	if it.Advance() != simdjson.TypeRoot {
		return nil, fmt.Errorf("json root not found")
	}
	typ, root, err := it.Root(nil)
	if err != nil {
		return nil, err
	}
	if typ != simdjson.TypeArray {
		return nil, fmt.Errorf("json input must be an array of words")
	}
	arr, err := root.Array(nil)
	if err != nil {
		return nil, err
	}

	words := wordPool.Get()
	defer func() { wordPool.Put(words[:0]) }()
	elems := arr.Iter()
	for i := 0; ; i++ {
		t := elems.Advance()
		if t == simdjson.TypeNone {
			break
		}
		w, err := wordFromIter(l, t, &elems)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		words = append(words, w)
	}
	return append([]lispobj.Object(nil), words...), nil
}

func wordFromIter(l *lispobj.Layout, t simdjson.Type, it *simdjson.Iter) (lispobj.Object, error) {
	switch t {
	case simdjson.TypeInt:
		v, err := it.Int()
		if err != nil {
			return lispobj.Nil, err
		}
		if v < 0 {
			return l.Wrap(v), nil
		}
		return lispobj.Object(v), nil
	case simdjson.TypeUint:
		v, err := it.Uint()
		if err != nil {
			return lispobj.Nil, err
		}
		return lispobj.Object(v), nil
	case simdjson.TypeString:
		s, err := it.String()
		if err != nil {
			return lispobj.Nil, err
		}
		return ParseWord(l, s)
	default:
		return lispobj.Nil, fmt.Errorf("unsupported json type for a word: %v", t)
	}
}

func parseWordsStd(l *lispobj.Layout, data []byte) ([]lispobj.Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	words := make([]lispobj.Object, 0, len(raw))
	for i, elem := range raw {
		var s string
		switch v := elem.(type) {
		case json.Number:
			s = v.String()
		case string:
			s = v
		default:
			return nil, fmt.Errorf("element %d: unsupported json type for a word: %T", i, elem)
		}
		w, err := ParseWord(l, s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		words = append(words, w)
	}
	return words, nil
}
