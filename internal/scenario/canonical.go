package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/roster/internal/journal"
)

// MarshalTrace produces the canonical JSON snapshot of a run:
// object keys sorted, no insignificant whitespace, strings NFC normalized,
// no HTML escaping. The run id is excluded so snapshots are stable across
// runs.
func MarshalTrace(name string, r *Result) ([]byte, error) {
	trace := make([]any, len(r.Trace))
	for i, ev := range r.Trace {
		trace[i] = eventMap(ev)
	}

	final := make([]any, len(r.Final))
	for i, u := range r.Final {
		final[i] = map[string]any{
			"id":    u.ID,
			"name":  u.Name,
			"email": u.Email,
		}
	}

	return marshalCanonical(map[string]any{
		"scenario": name,
		"trace":    trace,
		"final":    final,
	})
}

// eventMap keeps only the fields meaningful for the event's op.
func eventMap(ev TraceEvent) map[string]any {
	m := map[string]any{
		"seq": ev.Seq,
		"op":  ev.Op,
		"ok":  ev.OK,
	}
	switch ev.Op {
	case journal.OpAdd:
		m["id"] = ev.ID
		m["name"] = ev.Name
		m["email"] = ev.Email
	case journal.OpFind:
		m["id"] = ev.ID
		if ev.OK {
			m["name"] = ev.Name
			m["email"] = ev.Email
		}
	case journal.OpDelete:
		m["id"] = ev.ID
	case journal.OpList:
		m["count"] = ev.Count
		ids := make([]any, len(ev.IDs))
		for i, id := range ev.IDs {
			ids[i] = id
		}
		m["ids"] = ids
	}
	return m
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// marshalCanonicalString NFC-normalizes s and encodes it without HTML escaping.
func marshalCanonicalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}
	// Encoder appends a newline
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	// encoding/json escapes U+2028 and U+2029 even with SetEscapeHTML(false).
	// Canonical form keeps them literal.
	return unescapeLineSeparators(out), nil
}

// unescapeLineSeparators rewrites \u2028 and \u2029 escapes in an encoded
// JSON string to the literal characters. Escape pairs are consumed whole, so
// an escaped backslash followed by "u2028" stays as text.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if seq := data[i+1:]; len(seq) >= 5 && (bytes.HasPrefix(seq, []byte("u2028")) || bytes.HasPrefix(seq, []byte("u2029"))) {
			if seq[4] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := marshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// marshalCanonicalObject writes keys in sorted order. Keys are ASCII, so
// byte order equals UTF-16 code unit order.
func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalCanonicalString(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
