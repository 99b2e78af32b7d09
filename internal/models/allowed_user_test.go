package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowListRole(t *testing.T) {
	t.Parallel()

	cases := map[string]Role{
		"ceo":    RoleCEO,
		"CEO":    RoleCEO,
		"Ceo":    RoleTalent,
		" ceo ":  RoleTalent,
		"talent": RoleTalent,
		"":       RoleTalent,
	}
	for in, want := range cases {
		assert.Equal(t, want, AllowListRole(in), "role %q", in)
	}
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.com "))
}
