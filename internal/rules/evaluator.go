package rules

import (
	"github.com/cmdgate/cmdgate/internal/config"
	"github.com/cmdgate/cmdgate/internal/shell"
	"github.com/cmdgate/cmdgate/pkg/types"
)

// Fallback messages for decisions without a rule-configured message.
const (
	msgRuleDeny      = "Blocked by rule"
	msgRulePrompt    = "Requires confirmation"
	msgDefaultDeny   = "Blocked by default policy"
	msgDefaultPrompt = "No matching rule found"
)

// Evaluator applies a configuration to parsed commands. It holds no mutable
// state and may be shared across concurrent evaluations.
type Evaluator struct {
	cfg *config.Config
}

// New returns an evaluator over cfg. The configuration must not be mutated
// for the evaluator's lifetime.
func New(cfg *config.Config) *Evaluator {
	return &Evaluator{cfg: cfg}
}

// EvaluateCommand decides one command. Rule sources are consulted in strict
// precedence order, first match wins: inline rules first, then each active
// profile's rules in activation order, then the default action.
func (e *Evaluator) EvaluateCommand(cmd *shell.ParsedCommand) (types.Decision, *config.Rule) {
	for i := range e.cfg.Rules {
		rule := &e.cfg.Rules[i]
		if Matches(rule, cmd) {
			return decisionFor(rule), rule
		}
	}
	for p := range e.cfg.LoadedProfiles {
		profile := &e.cfg.LoadedProfiles[p]
		for i := range profile.Rules {
			rule := &profile.Rules[i]
			if Matches(rule, cmd) {
				return decisionFor(rule), rule
			}
		}
	}

	switch e.cfg.Settings.DefaultAction {
	case types.ActionAllow:
		return types.Allow(), nil
	case types.ActionDeny:
		return types.Deny(msgDefaultDeny), nil
	default:
		return types.Prompt(msgDefaultPrompt), nil
	}
}

// decisionFor converts a matched rule into a decision, substituting a
// generic message when the rule carries none. Allow decisions never carry
// a message.
func decisionFor(rule *config.Rule) types.Decision {
	switch rule.Action {
	case types.ActionDeny:
		if rule.Message != "" {
			return types.Deny(rule.Message)
		}
		return types.Deny(msgRuleDeny)
	case types.ActionPrompt:
		if rule.Message != "" {
			return types.Prompt(rule.Message)
		}
		return types.Prompt(msgRulePrompt)
	default:
		return types.Allow()
	}
}

// Evaluate folds the decisions for every command extracted from one input
// into the strictest one (Deny > Prompt > Allow), tied to the first command
// reaching that strictness. The fold stops at the first Deny; nothing
// stricter exists. This is what defeats pipe and chain bypass: a compound
// input is only as permissive as its most dangerous constituent.
func (e *Evaluator) Evaluate(cmds []shell.ParsedCommand) (types.Decision, *config.Rule) {
	decision := types.Allow()
	var matched *config.Rule

	for i := range cmds {
		d, rule := e.EvaluateCommand(&cmds[i])
		if i == 0 || d.StricterThan(decision) {
			decision = d
			matched = rule
		}
		if decision.Action == types.ActionDeny {
			break
		}
	}
	return decision, matched
}
