// Package rules interprets the allow/disallow rule arrays and
// arguments.{jvm,game} templates found in version metadata.
package rules

import (
	"encoding/json"
	"regexp"

	"github.com/quasar/launchpi/internal/platform"
)

// OSPredicate is the optional "os" clause of a Rule.
type OSPredicate struct {
	Name    string `json:"name,omitempty"`
	Arch    string `json:"arch,omitempty"`
	Version string `json:"version,omitempty"`
}

// Rule is a single allow/disallow predicate.
type Rule struct {
	Action   string          `json:"action"` // "allow" or "disallow"
	OS       *OSPredicate    `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// platformVersion supplies the string an OSPredicate.Version regular
// expression is matched against. It returns the empty string: the host OS
// version is not probed, so a version predicate matches only if its pattern
// accepts an empty string.
var platformVersion = func() string { return "" }

func matchOS(p *OSPredicate) bool {
	if p == nil {
		return true
	}
	if p.Name != "" && p.Name != platform.OSID() {
		return false
	}
	if p.Arch != "" && p.Arch != platform.ArchID() {
		return false
	}
	if p.Version != "" {
		re, err := regexp.Compile(p.Version)
		if err != nil || !re.MatchString(platformVersion()) {
			return false
		}
	}
	return true
}

func matchFeatures(want map[string]bool, have map[string]bool) bool {
	if len(want) == 0 {
		return true
	}
	for name, expected := range want {
		if have[name] != expected {
			return false
		}
	}
	return true
}

// Evaluate applies last-matching-rule-wins semantics: allow starts false,
// every rule whose predicates match overwrites the decision with its own
// action, and no rule short-circuits the loop. An empty rule list means
// "always included" and Evaluate is not consulted by callers in that case.
func Evaluate(list []Rule, features map[string]bool) bool {
	allow := false
	for _, r := range list {
		if !matchOS(r.OS) {
			continue
		}
		if !matchFeatures(r.Features, features) {
			continue
		}
		allow = r.Action == "allow"
	}
	return allow
}

// Applies reports whether an item gated by an optional rule list should be
// included: no rules means always included, otherwise Evaluate decides.
func Applies(list []Rule, features map[string]bool) bool {
	if len(list) == 0 {
		return true
	}
	return Evaluate(list, features)
}

// Arg is one element of an arguments.{jvm,game} template: either a bare
// string or a rule-gated object whose "value" is a string or list of
// strings. It unmarshals either JSON shape transparently.
type Arg struct {
	Plain   string
	IsPlain bool
	Rules   []Rule
	Value   []string
}

// UnmarshalJSON accepts either a JSON string or an object {rules?, value}.
func (a *Arg) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.Plain = s
		a.IsPlain = true
		return nil
	}

	var obj struct {
		Rules []Rule          `json:"rules"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	a.Rules = obj.Rules

	var single string
	if err := json.Unmarshal(obj.Value, &single); err == nil {
		a.Value = []string{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(obj.Value, &many); err != nil {
		return err
	}
	a.Value = many
	return nil
}

// Interpret expands a template into a flat argument list, applying rule
// filtering per element; elements with no rules always contribute.
func Interpret(args []Arg, features map[string]bool) []string {
	var out []string
	for _, a := range args {
		if a.IsPlain {
			out = append(out, a.Plain)
			continue
		}
		if len(a.Rules) > 0 && !Evaluate(a.Rules, features) {
			continue
		}
		out = append(out, a.Value...)
	}
	return out
}
