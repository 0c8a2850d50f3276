package taxonomy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidRule is returned when a rule cannot be parsed.
	ErrInvalidRule = errors.New("invalid rule")
	// ErrNoRules is returned when no usable rule remains after validation.
	ErrNoRules = errors.New("no valid rules")
)

// Rule moves or renames the subtree at Old to New.
type Rule struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`
}

// String renders the rule in its command-line form.
func (r Rule) String() string {
	return r.Old + "=>" + r.New
}

// RuleSet is an ordered list of validated rules.
// Later rules see the output of earlier rules within one rewrite.
type RuleSet []Rule

// NewRuleSet normalizes the rules and drops empty and no-op entries.
// The caller-supplied order is kept.
func NewRuleSet(rules ...Rule) RuleSet {
	out := make(RuleSet, 0, len(rules))
	for _, r := range rules {
		old := NormalizePath(r.Old)
		nw := NormalizePath(r.New)
		if old == "" || nw == "" || old == nw {
			continue
		}
		out = append(out, Rule{Old: old, New: nw})
	}
	return out
}

// ParseRule parses "OLD=>NEW".
func ParseRule(raw string) (Rule, error) {
	left, right, ok := strings.Cut(raw, "=>")
	if !ok {
		return Rule{}, fmt.Errorf("%w %q: expected format 'OLD=>NEW'", ErrInvalidRule, raw)
	}
	r := Rule{Old: NormalizePath(left), New: NormalizePath(right)}
	if r.Old == "" || r.New == "" {
		return Rule{}, fmt.Errorf("%w %q: empty side", ErrInvalidRule, raw)
	}
	return r, nil
}

// ParseRules parses a list of "OLD=>NEW" strings into a RuleSet.
// Rules whose two sides are equal are dropped; it is an error if none remain.
func ParseRules(raws []string) (RuleSet, error) {
	rules := make([]Rule, 0, len(raws))
	for _, raw := range raws {
		r, err := ParseRule(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	rs := NewRuleSet(rules...)
	if len(rs) == 0 {
		return nil, ErrNoRules
	}
	return rs, nil
}

// ruleFile is the YAML document shape accepted by LoadRulesFile.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRulesFile reads rules from a YAML file. Both a bare list of {old, new}
// objects and a document with a top-level "rules" key are accepted.
func LoadRulesFile(fs afero.Fs, path string) (RuleSet, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var list []Rule
	if err := yaml.Unmarshal(data, &list); err != nil {
		var doc ruleFile
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("failed to parse rules file %s: %w", path, docErr)
		}
		list = doc.Rules
	}

	rs := NewRuleSet(list...)
	if len(rs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRules)
	}
	return rs, nil
}

// Olds returns the old side of every rule, in order.
func (rs RuleSet) Olds() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Old
	}
	return out
}

// Strings renders every rule in "OLD=>NEW" form.
func (rs RuleSet) Strings() []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.String()
	}
	return out
}

// DefaultRules returns the built-in category moves used when no rule is given.
func DefaultRules() RuleSet {
	return NewRuleSet(
		Rule{"Sporditarbed", "Sport ja vaba aeg"},
		Rule{"Mängud ja mänguasjad", "Sport ja vaba aeg > Mängud ja mänguasjad"},
		Rule{"Teised > Kunst ja meelelahutus", "Sport ja vaba aeg > Kunst ja meelelahutus"},
		Rule{"Kodu ja aed", "Kodukaubad"},
		Rule{"Rõivad ja aksessuaarid", "Rõivad"},
		Rule{"Kodu ja aed > Aed ja muru", "Aed > Aed ja muru"},
		Rule{"Kodu ja aed > Basseinid ja spaad", "Aed > Basseinid ja spaad"},
		Rule{"Kodu ja aed > Kamina- ja ahjutarvikud", "Aed > Kamina- ja ahjutarvikud"},
		Rule{"Kodu ja aed > Kaminad", "Aed > Kaminad"},
		Rule{"Kodu ja aed > Õuevalgustus", "Aed > Õuevalgustus"},
		Rule{"Mööbel > Õuemööbel", "Aed > Õuemööbel"},
		Rule{"Mööbel > Õuemööbli tarvikud", "Aed > Õuemööbli tarvikud"},
		Rule{"Aed > Õuemööbel", "Aed > Aiamööbel"},
		Rule{"Aed > Õuevalgustus", "Aed > Aiavalgustus"},
		Rule{"Koduloomade tarbed > Lemmikloomatarbed", "Kodukaubad > Lemmikloomatarbed"},
		Rule{"Ehitustarbed > Aiad ja barjäärid", "Aed > Aiad ja barjäärid"},
		Rule{"Tervis ja ilu", "Sport ja vaba aeg > Tervis ja ilu"},
		Rule{"Elektroonika > Printimine, kopeerimine, skaneerimine ja faks", "Mööbel > Kontorimööbel > Printimine, kopeerimine, skaneerimine ja faks"},
		Rule{"Teised > Elektroonika > Printimine, kopeerimine, skaneerimine ja faks", "Mööbel > Kontorimööbel > Printimine, kopeerimine, skaneerimine ja faks"},
		Rule{"Kaamerad ja optika", "Sport ja vaba aeg > Kaamerad ja optika"},
		Rule{"Teised > Kaamerad ja optika", "Sport ja vaba aeg > Kaamerad ja optika"},
		Rule{"Sport ja vaba aeg > Stuudio valgustid", "Sport ja vaba aeg > Kaamerad ja optika > Stuudio valgustid"},
		Rule{"Kontoritarbed > Ettekande tarvikud", "Mööbel > Kontorimööbel > Ettekande tarvikud"},
	)
}
