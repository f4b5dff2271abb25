package smt

import (
	"fmt"
	"strings"
)

// Sort is a named type reference: a base sort (Bool, Int, ...), an indexed
// sort ((_ BitVec n)) or a sort constructor applied to parameters
// ((Array Index Elem)). Sorts compare structurally.
type Sort struct {
	Name    string
	Indices []uint // numeric indices of an indexed sort, e.g. the BitVec width
	Params  []Sort // sort parameters, e.g. Array index and element sorts
}

// Base sorts of the supported theories.
var (
	BoolSort   = Sort{Name: "Bool"}
	IntSort    = Sort{Name: "Int"}
	RealSort   = Sort{Name: "Real"}
	StringSort = Sort{Name: "String"}
	RegLanSort = Sort{Name: "RegLan"}
)

// BitVecSort returns the (_ BitVec width) sort.
func BitVecSort(width uint) Sort {
	return Sort{Name: "BitVec", Indices: []uint{width}}
}

// ArraySort returns the (Array index elem) sort.
func ArraySort(index, elem Sort) Sort {
	return Sort{Name: "Array", Params: []Sort{index, elem}}
}

// IsBitVec reports whether the sort is a bit-vector and returns its width.
func (s Sort) IsBitVec() (uint, bool) {
	if s.Name == "BitVec" && len(s.Indices) == 1 {
		return s.Indices[0], true
	}
	return 0, false
}

// Equal reports structural equality of two sort trees.
func (s Sort) Equal(other Sort) bool {
	if s.Name != other.Name ||
		len(s.Indices) != len(other.Indices) ||
		len(s.Params) != len(other.Params) {
		return false
	}
	for i, idx := range s.Indices {
		if other.Indices[i] != idx {
			return false
		}
	}
	for i, p := range s.Params {
		if !p.Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

// String renders the sort in SMT-LIB concrete syntax.
func (s Sort) String() string {
	if len(s.Indices) > 0 {
		parts := make([]string, 0, len(s.Indices)+2)
		parts = append(parts, "_", s.Name)
		for _, idx := range s.Indices {
			parts = append(parts, fmt.Sprintf("%d", idx))
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	if len(s.Params) > 0 {
		parts := make([]string, 0, len(s.Params)+1)
		parts = append(parts, s.Name)
		for _, p := range s.Params {
			parts = append(parts, p.String())
		}
		return "(" + strings.Join(parts, " ") + ")"
	}
	return s.Name
}
