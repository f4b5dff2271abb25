// Package isabelle translates parsed SMT-LIB terms into Isabelle/HOL
// inner syntax and assembles the proof obligation theory.
package isabelle

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// OpSpec describes how one SMT-LIB operator is spelled in Isabelle.
// An empty MapsTo means the operator is known but has no supported
// translation. Assoc controls how applications with more than two
// arguments are unrolled; Chainable expands them into a conjunction of
// adjacent pairs instead (SMT-LIB :chainable, e.g. (= a b c)).
type OpSpec struct {
	MapsTo    string `json:"mapsto"`
	Assoc     string `json:"assoc,omitempty"`
	Chainable bool   `json:"chainable"`
}

// IsLeftAssoc reports whether >2-ary applications unroll to the left.
func (s OpSpec) IsLeftAssoc() bool { return s.Assoc == "left" }

// IsRightAssoc reports whether >2-ary applications unroll to the right.
func (s OpSpec) IsRightAssoc() bool { return s.Assoc == "right" }

// SpecDef is the operator mapping table, grouped by SMT-LIB theory name.
// The theory root ships one as spec.json; a built-in table covers the
// core theories when the file is absent.
type SpecDef struct {
	Version       string                       `json:"version"`
	SMTLibVersion string                       `json:"smt-lib-version"`
	Specs         map[string]map[string]OpSpec `json:"specs"`
}

// Lookup finds the spec for an operator. Theories are scanned in sorted
// name order so an operator listed in more than one theory resolves the
// same way on every run.
func (s *SpecDef) Lookup(op string) (OpSpec, bool) {
	names := make([]string, 0, len(s.Specs))
	for name := range s.Specs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if spec, ok := s.Specs[name][op]; ok {
			return spec, true
		}
	}
	return OpSpec{}, false
}

// LoadSpecFile reads an operator table from a JSON file. Entries extend
// and override the built-in table theory by theory.
func LoadSpecFile(path string) (*SpecDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading operator spec: %w", err)
	}
	var loaded SpecDef
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing operator spec %s: %w", path, err)
	}
	spec := DefaultSpec()
	spec.Version = loaded.Version
	spec.SMTLibVersion = loaded.SMTLibVersion
	for theory, ops := range loaded.Specs {
		if spec.Specs[theory] == nil {
			spec.Specs[theory] = make(map[string]OpSpec)
		}
		for op, opSpec := range ops {
			spec.Specs[theory][op] = opSpec
		}
	}
	return spec, nil
}

// DefaultSpec is the built-in operator table for the supported theories.
// MapsTo spellings are bare operator names; the translator adds the
// parenthesized section syntax for infix application.
func DefaultSpec() *SpecDef {
	return &SpecDef{
		Version:       "builtin",
		SMTLibVersion: "2.6",
		Specs: map[string]map[string]OpSpec{
			"Core": {
				"not": {MapsTo: `Not`},
				"and": {MapsTo: `\<and>`, Assoc: "left"},
				"or":  {MapsTo: `\<or>`, Assoc: "left"},
				"xor": {MapsTo: `\<noteq>`, Assoc: "left"},
				"=>":  {MapsTo: `\<longrightarrow>`, Assoc: "right"},
				"=":   {MapsTo: `=`, Chainable: true},
				"ite": {MapsTo: `If`},
			},
			"Ints": {
				"+":   {MapsTo: `+`, Assoc: "left"},
				"-":   {MapsTo: `-`, Assoc: "left"},
				"*":   {MapsTo: `*`, Assoc: "left"},
				"div": {MapsTo: `div`, Assoc: "left"},
				"mod": {MapsTo: `mod`},
				"abs": {MapsTo: `abs`},
				"<":   {MapsTo: `<`, Chainable: true},
				"<=":  {MapsTo: `\<le>`, Chainable: true},
				">":   {MapsTo: `>`, Chainable: true},
				">=":  {MapsTo: `\<ge>`, Chainable: true},
			},
			"Reals": {
				"/": {MapsTo: `/`, Assoc: "left"},
			},
			"BitVec": {
				"bvadd":  {MapsTo: `+`, Assoc: "left"},
				"bvsub":  {MapsTo: `-`},
				"bvmul":  {MapsTo: `*`, Assoc: "left"},
				"bvand":  {MapsTo: `AND`, Assoc: "left"},
				"bvor":   {MapsTo: `OR`, Assoc: "left"},
				"bvxor":  {MapsTo: `XOR`, Assoc: "left"},
				"bvnot":  {MapsTo: `NOT`},
				"bvneg":  {MapsTo: `uminus`},
				"bvudiv": {MapsTo: `div`},
				"bvurem": {MapsTo: `mod`},
				"bvult":  {MapsTo: `<`},
				"bvule":  {MapsTo: `\<le>`},
				"bvugt":  {MapsTo: `>`},
				"bvuge":  {MapsTo: `\<ge>`},
				"bvslt":  {MapsTo: `word_sless`},
				"bvsle":  {MapsTo: `word_sle`},
				"concat": {MapsTo: `word_cat`},
				// No usable spelling without extra theory support.
				"bvsdiv": {},
				"bvsrem": {},
				"bvshl":  {},
				"bvlshr": {},
				"bvashr": {},
			},
			"Strings": {
				"str.++":          {MapsTo: `@`, Assoc: "left"},
				"str.len":         {MapsTo: `str_len`},
				"str.at":          {MapsTo: `str_at`},
				"str.substr":      {MapsTo: `str_substr`},
				"str.contains":    {MapsTo: `str_contains`},
				"str.prefixof":    {MapsTo: `str_prefixof`},
				"str.suffixof":    {MapsTo: `str_suffixof`},
				"str.indexof":     {MapsTo: `str_indexof`},
				"str.replace":     {MapsTo: `str_replace`},
				"str.replace_all": {MapsTo: `str_replace_all`},
				"str.to_int":      {MapsTo: `str_to_int`},
				"str.from_int":    {MapsTo: `str_from_int`},
				"str.<":           {MapsTo: `str_less`},
				"str.<=":          {MapsTo: `str_less_eq`},
			},
		},
	}
}
