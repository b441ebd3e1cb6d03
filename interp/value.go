// Package interp is ember's tree-walking evaluator: values, symbol tables,
// l-values, modules, and built-in methods (spec §4.4-§4.6), grounded on the
// original interpreter.cpp's eval_node/SymbolTable/BoxedValue design and
// rewritten as a tagged-union Value with flat-switch dispatch per the
// redesign note in spec §9 ("Polymorphism without inheritance").
package interp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emberlang/ember/ast"
)

// ValueKind discriminates the Value tagged union (spec §3.3).
type ValueKind int

const (
	NothingValue ValueKind = iota
	BoolValue
	IntValue
	FloatValue
	StringValue
	VectorValue
	DictValue
	FunctionValue
	ModuleValue
)

func (k ValueKind) String() string {
	switch k {
	case NothingValue:
		return "nothing"
	case BoolValue:
		return "bool"
	case IntValue:
		return "int"
	case FloatValue:
		return "float"
	case StringValue:
		return "string"
	case VectorValue:
		return "vector"
	case DictValue:
		return "dict"
	case FunctionValue:
		return "function"
	case ModuleValue:
		return "module"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a single boxed ember value. Only the field selected by Kind is
// meaningful; the rest are zero. Vector/Dict/Function/Module carry pointers
// so that assigning a value elsewhere shares the underlying container,
// matching spec §3.3's "shared value handles".
type Value struct {
	Kind  ValueKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
	Vec   *Vector
	Dict  *Dict
	Fn    *Function
	Mod   *Module
}

func nothing() *Value { return &Value{Kind: NothingValue} }

// Vector is ember's ordered heterogeneous sequence. Growth is delegated to
// Go's slice append (doubling amortized capacity), matching spec §3.3's
// "grows by doubling" without hand-rolling the growth policy.
type Vector struct {
	Elems []*Value
}

// dictEntry pairs a dict's original, typed key with its stored value so
// Keys() can return the original key rather than its hash string.
type dictEntry struct {
	Key   Value
	Value *Value
}

// Dict is ember's insertion-ordered associative container, keyed by the
// typed-key hash string from spec §4.5.3.
type Dict struct {
	order   []string
	entries map[string]*dictEntry
}

// NewDict builds an empty dictionary.
func NewDict() *Dict {
	return &Dict{entries: make(map[string]*dictEntry)}
}

// Get looks up an entry by its already-computed hash key.
func (d *Dict) Get(hash string) (*dictEntry, bool) {
	e, ok := d.entries[hash]
	return e, ok
}

// Set inserts or overwrites the entry at hash, preserving insertion order on
// first insert.
func (d *Dict) Set(hash string, key Value, value *Value) {
	if _, exists := d.entries[hash]; !exists {
		d.order = append(d.order, hash)
	}
	d.entries[hash] = &dictEntry{Key: key, Value: value}
}

// Len reports the number of entries.
func (d *Dict) Len() int { return len(d.order) }

// Keys returns the original-typed keys in insertion order.
func (d *Dict) Keys() []*Value {
	out := make([]*Value, len(d.order))
	for i, h := range d.order {
		k := d.entries[h].Key
		out[i] = &k
	}
	return out
}

// Function is a first-class ember function value: a parameter-name list and
// an AST body, plus an optional bound receiver ("this") and an optional
// bound module scope for functions looked up off a module value.
type Function struct {
	Name        string
	Params      []string
	Body        ast.Node
	This        *Value
	ModuleScope *SymbolTable
}

// Module is the result of a named import: a name and an owned scope.
type Module struct {
	Name  string
	Scope *SymbolTable
}

// Stringify renders v per spec §4.5.4, used by print, string concatenation,
// and dict-key canonicalization.
func Stringify(v *Value) string {
	switch v.Kind {
	case NothingValue:
		return "nothing"
	case BoolValue:
		if v.Bool {
			return "true"
		}
		return "false"
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case FloatValue:
		return strconv.FormatFloat(v.Float, 'f', 1, 64)
	case StringValue:
		return v.Str
	case VectorValue:
		parts := make([]string, len(v.Vec.Elems))
		for i, e := range v.Vec.Elems {
			parts[i] = quoteIfString(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case DictValue:
		parts := make([]string, 0, v.Dict.Len())
		for _, h := range v.Dict.order {
			entry := v.Dict.entries[h]
			parts = append(parts, quoteIfString(&entry.Key)+": "+quoteIfString(entry.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case FunctionValue:
		return fmt.Sprintf("function:%s(%s)", v.Fn.Name, strings.Join(v.Fn.Params, ","))
	case ModuleValue:
		return "module:" + v.Mod.Name
	default:
		return fmt.Sprintf("<unprintable %s>", v.Kind)
	}
}

// quoteIfString renders v like Stringify, except string values are wrapped
// in double quotes, per spec §4.5.4's vector/dict rendering rule.
func quoteIfString(v *Value) string {
	if v.Kind == StringValue {
		return `"` + v.Str + `"`
	}
	return Stringify(v)
}

// DictKey computes the typed-key hash string from spec §4.5.3. Only bool,
// int, float, and string are valid dict keys.
func DictKey(v *Value) (string, error) {
	switch v.Kind {
	case BoolValue, IntValue, FloatValue, StringValue:
		return v.Kind.String() + ":" + Stringify(v), nil
	default:
		return "", &TypeError{Message: fmt.Sprintf("value of type %s cannot be used as a dict key", v.Kind)}
	}
}
