package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "y", input: "y\n", want: true},
		{name: "yes uppercase", input: "YES\n", want: true},
		{name: "padded", input: "  y  \n", want: true},
		{name: "no", input: "n\n", want: false},
		{name: "empty line defaults to no", input: "\n", want: false},
		{name: "eof defaults to no", input: "", want: false},
		{name: "yes without newline", input: "y", want: true},
		{name: "anything else", input: "sure\n", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			term := NewTerminal(strings.NewReader(tt.input), &out)

			got, err := term.Confirm(DeleteQuestion)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, DeleteQuestion+" ", out.String())
		})
	}
}

// scripted answers questions from a fixed list and records what was asked.
type scripted struct {
	answers []bool
	asked   []string
}

func (s *scripted) Confirm(message string) (bool, error) {
	s.asked = append(s.asked, message)
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func TestConfirmAll(t *testing.T) {
	tests := []struct {
		name      string
		answers   []bool
		want      bool
		wantAsked int
	}{
		{name: "both yes", answers: []bool{true, true}, want: true, wantAsked: 2},
		{name: "first no", answers: []bool{false, true}, want: false, wantAsked: 1},
		{name: "second no", answers: []bool{true, false}, want: false, wantAsked: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &scripted{answers: tt.answers}

			got, err := ConfirmAll(c, DeleteQuestion, FinalQuestion)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, c.asked, tt.wantAsked)
		})
	}
}

func TestConfirmAll_SharedTerminalInput(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(strings.NewReader("y\ny\n"), &out)

	ok, err := ConfirmAll(term, DeleteQuestion, FinalQuestion)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, DeleteQuestion+" "+FinalQuestion+" ", out.String())
}

func TestStatic(t *testing.T) {
	yes, _ := Static(true).Confirm(DeleteQuestion)
	no, _ := Static(false).Confirm(DeleteQuestion)

	assert.True(t, yes)
	assert.False(t, no)
}
