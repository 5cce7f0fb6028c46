/*
file: go-redis-server/internal/resp/value.go
*/

// Package resp implements the RESP wire protocol: a streaming, resumable
// parser and a total serializer over a small tagged-union Frame type.
package resp

// Type identifies the RESP variant of a Value.
type Type byte

const (
	SimpleString Type = '+'
	Error        Type = '-'
	Integer      Type = ':'
	Bulk         Type = '$'
	Array        Type = '*'
	// Hash has no wire prefix of its own: it is a server-side view used to
	// build commands like HGETALL before they are serialized as an Array.
	Hash Type = 0
)

// Value is a parsed (or to-be-serialized) RESP frame. Only the fields
// relevant to Typ are meaningful; callers must not read the others.
//
//   - SimpleString / Error: Str holds the inline text.
//   - Integer: Int holds the signed value.
//   - Bulk: Bulk holds the payload; IsNull distinguishes a null bulk ($-1)
//     from an empty bulk ($0).
//   - Array: Items holds the ordered elements; IsNull distinguishes a null
//     array (*-1) from an empty array (*0).
//   - Hash: Fields holds key/value pairs; serialized as an Array of
//     [k1, v1, k2, v2, ...] with length 2*len(Fields).
type Value struct {
	Typ Type

	Str    string
	Int    int64
	Bulk   []byte
	Items  []Value
	Fields []HashField

	IsNull bool
}

// HashField is one key/value pair of a server-side Hash frame.
type HashField struct {
	Key   string
	Value Value
}

func NewSimpleString(s string) Value { return Value{Typ: SimpleString, Str: s} }
func NewError(s string) Value        { return Value{Typ: Error, Str: s} }
func NewInteger(n int64) Value       { return Value{Typ: Integer, Int: n} }

func NewBulk(b []byte) Value { return Value{Typ: Bulk, Bulk: b} }
func NewBulkString(s string) Value {
	return Value{Typ: Bulk, Bulk: []byte(s)}
}
func NewNullBulk() Value { return Value{Typ: Bulk, IsNull: true} }

func NewArray(items []Value) Value { return Value{Typ: Array, Items: items} }
func NewNullArray() Value          { return Value{Typ: Array, IsNull: true} }

func NewHash(fields []HashField) Value { return Value{Typ: Hash, Fields: fields} }

// OK is the canonical +OK\r\n reply shared by many write commands.
func OK() Value { return NewSimpleString("OK") }

// ErrWrongType is the canonical error text for a type-discipline violation.
const ErrWrongType = "ERR operation against a key holding the wrong kind of value"

// Command extracts the command name and argument bulk strings from a client
// request frame. ok is false when v is not a non-empty Array.
func (v Value) Command() (name string, args []string, ok bool) {
	if v.Typ != Array || len(v.Items) == 0 {
		return "", nil, false
	}
	name = string(v.Items[0].Bulk)
	args = make([]string, 0, len(v.Items)-1)
	for _, item := range v.Items[1:] {
		args = append(args, string(item.Bulk))
	}
	return name, args, true
}

// Raw returns the bulk-string arguments of v (including the command name) as
// a copied slice of Value frames suitable for re-serialization. Replication
// fan-out does not use it: it forwards the client's original request bytes.
func (v Value) Raw() []Value {
	out := make([]Value, len(v.Items))
	copy(out, v.Items)
	return out
}
