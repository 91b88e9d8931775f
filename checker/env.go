package checker

import "github.com/clarity-lang/clarity/types"

// binding is one entry of a value scope (spec.md §3.3).
type binding struct {
	typ *types.Type
	mut bool
}

// Env is a lexical environment: a stack of value scopes. Built-ins and
// module-level functions occupy the root scope (index 0).
type Env struct {
	scopes []map[string]*binding
}

func NewEnv() *Env {
	return &Env{scopes: []map[string]*binding{make(map[string]*binding)}}
}

func (e *Env) Push() { e.scopes = append(e.scopes, make(map[string]*binding)) }

func (e *Env) Pop() { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *Env) Define(name string, typ *types.Type, mut bool) {
	e.scopes[len(e.scopes)-1][name] = &binding{typ: typ, mut: mut}
}

func (e *Env) Lookup(name string) (*types.Type, bool, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if b, ok := e.scopes[i][name]; ok {
			return b.typ, b.mut, true
		}
	}
	return nil, false, false
}
