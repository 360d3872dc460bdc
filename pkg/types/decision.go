// Package types holds the shared decision vocabulary of the gate.
package types

// Action is the outcome a rule (or the default policy) assigns to a command.
type Action string

const (
	ActionAllow  Action = "allow"
	ActionDeny   Action = "deny"
	ActionPrompt Action = "prompt"
)

// Valid reports whether a is one of the three known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionAllow, ActionDeny, ActionPrompt:
		return true
	}
	return false
}

// Strictness orders actions so that Deny > Prompt > Allow.
func (a Action) Strictness() int {
	switch a {
	case ActionDeny:
		return 2
	case ActionPrompt:
		return 1
	default:
		return 0
	}
}

// Decision is the evaluated outcome for one or more commands. Message is
// empty for Allow and carries the rule (or fallback) text otherwise.
type Decision struct {
	Action  Action
	Message string
}

// Allow is the zero-message Allow decision.
func Allow() Decision { return Decision{Action: ActionAllow} }

// Deny returns a Deny decision with the given message.
func Deny(message string) Decision { return Decision{Action: ActionDeny, Message: message} }

// Prompt returns a Prompt decision with the given message.
func Prompt(message string) Decision { return Decision{Action: ActionPrompt, Message: message} }

// StricterThan reports whether d outranks other under Deny > Prompt > Allow.
func (d Decision) StricterThan(other Decision) bool {
	return d.Action.Strictness() > other.Action.Strictness()
}
