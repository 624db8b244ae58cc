// # internal/convert/rules.go
package convert

import (
	"strings"

	"cxxconv/internal/errors"
	"cxxconv/internal/match"
)

// ExportRule decides whether an import becomes `export import`. Written as
// "A=B" (A re-exports B) or "A=!B" (A imports B without re-export, used to
// carve exceptions out of a broader rule). Either side may be a pattern,
// `*` matches any module.
type ExportRule struct {
	Source string
	Target string
	Export bool
}

// ParseExportRule parses the "source=target" form.
func ParseExportRule(s string) (ExportRule, error) {
	eq := strings.IndexByte(s, '=')
	if eq <= 0 || eq == len(s)-1 {
		return ExportRule{}, errors.Newf(errors.CodeConfig, "export rule %q: expected source=target", s)
	}
	rule := ExportRule{Source: s[:eq], Target: s[eq+1:], Export: true}
	if strings.HasPrefix(rule.Target, "!") {
		rule.Export = false
		rule.Target = rule.Target[1:]
		if rule.Target == "" {
			return ExportRule{}, errors.Newf(errors.CodeConfig, "export rule %q: empty target", s)
		}
	}
	return rule, nil
}

type compiledExportRule struct {
	source match.Name
	target match.Name
	export bool
}

// exportTable holds the ordered rule list plus the suffix overrides.
// Evaluation scans the whole list, the last matching rule wins.
type exportTable struct {
	rules    []compiledExportRule
	suffixes []string
}

func newExportTable(rules []ExportRule, suffixes []string) (*exportTable, error) {
	t := &exportTable{suffixes: suffixes}
	for _, r := range rules {
		source, err := match.CompileName(r.Source)
		if err != nil {
			return nil, err
		}
		target, err := match.CompileName(r.Target)
		if err != nil {
			return nil, err
		}
		t.rules = append(t.rules, compiledExportRule{source: source, target: target, export: r.Export})
	}
	return t, nil
}

// needsExport decides import vs export-import for one resolved import. A
// suffix match promotes to export but never demotes what a rule mandated.
func (t *exportTable) needsExport(current, imported string) bool {
	export := false
	for _, r := range t.rules {
		if r.source.Match(current) && r.target.Match(imported) {
			export = r.export
		}
	}
	if export {
		return true
	}
	for _, suffix := range t.suffixes {
		if suffix != "" && strings.HasSuffix(imported, suffix) {
			return true
		}
	}
	return false
}
