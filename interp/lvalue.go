package interp

// LValue is an assignment target: a variable slot, a vector index, or a
// dict index (spec §4.4.2).
type LValue interface {
	Current() *Value
	Assign(v *Value)
}

type variableLValue struct {
	table *SymbolTable
	name  string
}

func (lv *variableLValue) Current() *Value { return lv.table.entries[lv.name].Value }

func (lv *variableLValue) Assign(v *Value) {
	lv.table.entries[lv.name] = &Entry{Kind: VarEntry, Value: v}
}

type vectorIndexLValue struct {
	vec   *Vector
	index int
}

func (lv *vectorIndexLValue) Current() *Value { return lv.vec.Elems[lv.index] }

func (lv *vectorIndexLValue) Assign(v *Value) { lv.vec.Elems[lv.index] = v }

type dictIndexLValue struct {
	dict *Dict
	hash string
	key  Value
}

func (lv *dictIndexLValue) Current() *Value {
	entry, ok := lv.dict.Get(lv.hash)
	if !ok {
		return nothing()
	}
	return entry.Value
}

// Assign writes the value at hash, inserting a new entry if the key was not
// already present (spec §4.4.2: "assignment to a missing key inserts it").
func (lv *dictIndexLValue) Assign(v *Value) {
	lv.dict.Set(lv.hash, lv.key, v)
}
