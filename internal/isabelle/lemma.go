package isabelle

import (
	"fmt"
	"strings"
	"text/template"
)

// TypedName is one fixed (declared but undefined) variable of a lemma.
type TypedName struct {
	Name string
	Type string
}

// Lemma states one proof obligation: fixed uninterpreted symbols,
// definitional premises, and the conclusions to show.
type Lemma struct {
	Name    string
	Fixes   []TypedName
	Assumes []string
	Shows   []string
}

// Render produces the Isar text of the lemma with a simp-based discharge
// attempt.
func (l *Lemma) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "lemma %s:\n", l.Name)

	if len(l.Fixes) > 0 {
		parts := make([]string, len(l.Fixes))
		for i, f := range l.Fixes {
			parts[i] = fmt.Sprintf("%s::\"%s\"", f.Name, f.Type)
		}
		fmt.Fprintf(&sb, "  fixes %s\n", strings.Join(parts, " and "))
	}

	if len(l.Assumes) > 0 {
		parts := make([]string, len(l.Assumes))
		for i, a := range l.Assumes {
			parts[i] = fmt.Sprintf("\"%s\"", a)
		}
		fmt.Fprintf(&sb, "  assumes %s\n", strings.Join(parts, " and "))
	}

	shows := `True`
	if len(l.Shows) > 0 {
		shows = strings.Join(l.Shows, ` \<and> `)
	}
	fmt.Fprintf(&sb, "  shows \"%s\"\n", shows)

	if len(l.Assumes) > 0 {
		sb.WriteString("  apply(simp add: assms)\n")
	} else {
		sb.WriteString("  apply(simp)\n")
	}
	sb.WriteString("  done\n")
	return sb.String()
}

// Split returns one lemma per conclusion, for locating which assertion
// fails. Premises are shared.
func (l *Lemma) Split() []Lemma {
	out := make([]Lemma, 0, len(l.Shows))
	for i, c := range l.Shows {
		out = append(out, Lemma{
			Name:    fmt.Sprintf("%s_%d", l.Name, i),
			Fixes:   l.Fixes,
			Assumes: l.Assumes,
			Shows:   []string{c},
		})
	}
	return out
}

// Theory is a self-contained theory file holding the obligation lemmas.
type Theory struct {
	Name        string
	Imports     []string
	SplitLemmas bool
	lemmas      []Lemma
}

// NewTheory returns an empty theory with the given name.
func NewTheory(name string, split bool) *Theory {
	return &Theory{Name: name, SplitLemmas: split}
}

// AddImport appends a theory import.
func (t *Theory) AddImport(name string) {
	t.Imports = append(t.Imports, name)
}

// AddLemma appends a lemma, splitting it per conclusion when the theory
// was created in split mode.
func (t *Theory) AddLemma(l Lemma) {
	if t.SplitLemmas && len(l.Shows) > 1 {
		t.lemmas = append(t.lemmas, l.Split()...)
		return
	}
	t.lemmas = append(t.lemmas, l)
}

var theoryTemplate = template.Must(template.New("theory").Parse(
	`theory {{.Name}}
  imports {{range .Imports}}{{printf "%q" .}} {{end}}{{if not .Imports}}Main{{end}}
begin

{{range .Lemmas}}{{.}}
{{end}}end
`))

// Render produces the full theory file text.
func (t *Theory) Render() (string, error) {
	rendered := make([]string, len(t.lemmas))
	for i, l := range t.lemmas {
		rendered[i] = l.Render()
	}
	var sb strings.Builder
	err := theoryTemplate.Execute(&sb, struct {
		Name    string
		Imports []string
		Lemmas  []string
	}{t.Name, t.Imports, rendered})
	if err != nil {
		return "", fmt.Errorf("rendering theory: %w", err)
	}
	return sb.String(), nil
}
