package interp

import "fmt"

// EntryKind classifies a symbol table slot (spec §3.5).
type EntryKind int

const (
	ConstEntry EntryKind = iota
	VarEntry
	FunctionEntry
)

// Entry is one symbol table slot.
type Entry struct {
	Kind  EntryKind
	Value *Value
}

// SymbolTable is a lexically nested identifier->entry mapping, chained via a
// non-owning parent pointer (spec §3.5). A table also tracks the module
// scopes it owns transitively through unnamed/named imports, so their
// lifetime is pinned to the importer's.
type SymbolTable struct {
	parent  *SymbolTable
	entries map[string]*Entry
	modules []*SymbolTable
}

// NewSymbolTable builds a table whose parent (possibly nil, for the root
// table) is used for name resolution that misses locally.
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{parent: parent, entries: make(map[string]*Entry)}
}

// Declare adds a new entry. Redeclaring an identifier already present in
// this exact scope is a ResolutionError (spec §3.5: "no implicit
// shadowing... in the same scope").
func (st *SymbolTable) Declare(name string, kind EntryKind, v *Value) error {
	if _, exists := st.entries[name]; exists {
		return &ResolutionError{Message: fmt.Sprintf("identifier %q is already declared in this scope", name)}
	}
	st.entries[name] = &Entry{Kind: kind, Value: v}
	return nil
}

// adoptModule records moduleSt as owned by st, per spec §3.5's "module
// tables are owned by the importer's symbol table, transitively".
func (st *SymbolTable) adoptModule(moduleSt *SymbolTable) {
	st.modules = append(st.modules, moduleSt)
}

// mergeFrom copies every entry of src except "main" into st, overwriting any
// existing entry of the same name. Used for unnamed imports (spec §4.4.4).
func (st *SymbolTable) mergeFrom(src *SymbolTable) {
	for name, entry := range src.entries {
		if name == "main" {
			continue
		}
		st.entries[name] = entry
	}
}

// LookupRValue walks the parent chain for name and returns its current
// value. Unknown identifiers are a ResolutionError.
func (st *SymbolTable) LookupRValue(name string) (*Value, error) {
	for t := st; t != nil; t = t.parent {
		if e, ok := t.entries[name]; ok {
			return e.Value, nil
		}
	}
	return nil, &ResolutionError{Message: fmt.Sprintf("lookup of identifier %q failed", name)}
}

// LookupLValue walks the parent chain for name and returns an assignable
// location. Constants and functions are not assignable (spec §4.4.2).
func (st *SymbolTable) LookupLValue(name string) (LValue, error) {
	for t := st; t != nil; t = t.parent {
		if e, ok := t.entries[name]; ok {
			if e.Kind != VarEntry {
				return nil, &ResolutionError{Message: "assignment is not supported on constants or functions"}
			}
			return &variableLValue{table: t, name: name}, nil
		}
	}
	return nil, &ResolutionError{Message: fmt.Sprintf("lookup of identifier %q failed", name)}
}
