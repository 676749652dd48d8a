package stats

import (
	"sort"
	"strings"

	"github.com/tidwall/sjson"

	"github.com/maxleiko/bsc/protocol"
)

// MapJSON renders a decoded map document as a JSON object. Keys are
// sorted so the output is stable across calls.
func MapJSON(doc protocol.Map) ([]byte, error) {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	out := []byte("{}")

	for _, key := range keys {
		var err error

		out, err = sjson.SetBytes(out, escapePath(key), jsonValue(doc[key]))
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// ListJSON renders a decoded list document as a JSON array, in document
// order.
func ListJSON(doc protocol.List) ([]byte, error) {
	out := []byte("[]")

	for _, val := range doc {
		var err error

		out, err = sjson.SetBytes(out, "-1", jsonValue(val))
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

func jsonValue(s protocol.Scalar) interface{} {
	switch s.Kind {
	case protocol.ScalarInt:
		return s.Uint
	case protocol.ScalarFloat:
		return s.Float
	case protocol.ScalarBool:
		return s.Bool
	}

	return s.Text
}

// escapePath keeps a literal dot in a key from being read as a path
// separator by sjson.
func escapePath(key string) string {
	if !strings.ContainsAny(key, ".*?") {
		return key
	}

	var b strings.Builder

	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '.', '*', '?':
			b.WriteByte('\\')
		}

		b.WriteByte(key[i])
	}

	return b.String()
}
