package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActionValid(t *testing.T) {
	assert.True(t, ActionAllow.Valid())
	assert.True(t, ActionDeny.Valid())
	assert.True(t, ActionPrompt.Valid())
	assert.False(t, Action("block").Valid())
	assert.False(t, Action("").Valid())
}

func TestStrictnessOrdering(t *testing.T) {
	assert.True(t, Deny("x").StricterThan(Prompt("y")))
	assert.True(t, Deny("x").StricterThan(Allow()))
	assert.True(t, Prompt("y").StricterThan(Allow()))

	assert.False(t, Allow().StricterThan(Prompt("y")))
	assert.False(t, Prompt("y").StricterThan(Deny("x")))
	assert.False(t, Deny("a").StricterThan(Deny("b")))
}
