package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlternate(t *testing.T) {
	tests := []struct {
		name       string
		system     string
		msgs       []Message
		wantSystem string
		wantTurns  []Message
	}{
		{
			name:       "starter moves into system",
			system:     "You are Sensei.",
			msgs:       []Message{{Role: RoleAssistant, Content: "Konnichiwa!"}, {Role: RoleUser, Content: "hi"}},
			wantSystem: "You are Sensei.\n\nYou opened this conversation by saying:\nKonnichiwa!",
			wantTurns:  []Message{{Role: RoleUser, Content: "hi"}},
		},
		{
			name:       "no system prompt",
			msgs:       []Message{{Role: RoleAssistant, Content: "やあ"}, {Role: RoleUser, Content: "hello"}},
			wantSystem: "You opened this conversation by saying:\nやあ",
			wantTurns:  []Message{{Role: RoleUser, Content: "hello"}},
		},
		{
			name:   "same role joined and blanks dropped",
			system: "s",
			msgs: []Message{
				{Role: RoleUser, Content: "one"},
				{Role: RoleUser, Content: "  "},
				{Role: RoleUser, Content: "two"},
				{Role: RoleAssistant, Content: "three"},
			},
			wantSystem: "s",
			wantTurns:  []Message{{Role: RoleUser, Content: "one\n\ntwo"}, {Role: RoleAssistant, Content: "three"}},
		},
		{
			name:       "only assistant turns",
			msgs:       []Message{{Role: RoleAssistant, Content: "a"}},
			wantSystem: "You opened this conversation by saying:\na",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, turns := alternate(tt.system, tt.msgs)
			assert.Equal(t, tt.wantSystem, system)
			assert.Equal(t, tt.wantTurns, turns)
		})
	}
}

func TestFinish(t *testing.T) {
	schema := testSchema()

	content, err := finish(Request{}, ResponseText{}, "end")
	require.NoError(t, err)
	assert.Empty(t, content, "blank plain replies pass through")

	content, err = finish(Request{}, ResponseText{Blocks: []string{"a", "b"}}, "max_tokens")
	require.NoError(t, err)
	assert.Equal(t, "a\n\nb", string(content))

	_, err = finish(Request{Schema: schema}, ResponseText{Flat: `{"name":"Ke`}, "max_tokens")
	var maxTok *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &maxTok), "truncated JSON is not retried as invalid")

	_, err = finish(Request{Schema: schema}, ResponseText{Flat: `{"name":"Kenji"}`}, "end")
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv))

	content, err = finish(Request{Schema: schema}, ResponseText{Flat: `{"name":"Kenji","age":9}`}, "end")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Kenji","age":9}`, string(content))
}
