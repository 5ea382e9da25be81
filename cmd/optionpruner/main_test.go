package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/optionpruner/internal/prompt"
)

// execute runs the root command in an isolated working directory and home
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRun_MissingAttributeCode(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no flag", args: nil},
		{name: "blank code", args: []string{"--attribute-code", "  "}},
		{name: "only separators", args: []string{"-a", " , ,"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "", tt.args...)

			require.NoError(t, err, "a missing code is not fatal")
			assert.Equal(t, msgMissingAttributeCode+"\n", out)
		})
	}
}

func TestRun_Declined(t *testing.T) {
	tests := []struct {
		name           string
		stdin          string
		wantFinalAsked bool
	}{
		{name: "first question declined", stdin: "n\n"},
		{name: "second question declined", stdin: "y\nno\n", wantFinalAsked: true},
		{name: "empty answer", stdin: "\n"},
		{name: "no input", stdin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPTIONPRUNER_DATABASE_URL", "sqlite:///nonexistent/catalog.db")

			out, err := execute(t, tt.stdin, "--attribute-code", "color")

			require.NoError(t, err)
			assert.Contains(t, out, prompt.DeleteQuestion)
			assert.Equal(t, tt.wantFinalAsked, strings.Contains(out, prompt.FinalQuestion))
			assert.True(t, strings.HasSuffix(out, msgNothingDeleted+"\n"))
			assert.NotContains(t, out, msgDeleting)
		})
	}
}

func TestRun_CamelCaseAttributeCodeFlag(t *testing.T) {
	t.Setenv("OPTIONPRUNER_DATABASE_URL", "sqlite:///nonexistent/catalog.db")

	out, err := execute(t, "n\n", "--attributeCode", "color")

	require.NoError(t, err)
	assert.NotContains(t, out, msgMissingAttributeCode)
	assert.Contains(t, out, msgNothingDeleted)
}

func TestRun_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		args    []string
		wantErr string
	}{
		{
			name:    "missing database url",
			args:    []string{"-a", "color", "--yes"},
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "invalid format",
			env:     "sqlite:///nonexistent/catalog.db",
			args:    []string{"-a", "color", "--yes", "--format", "xml"},
			wantErr: "invalid format: xml",
		},
		{
			name:    "db-url flag overrides environment",
			env:     "sqlite:///nonexistent/catalog.db",
			args:    []string{"-a", "color", "--yes", "--db-url", "oracle://catalog"},
			wantErr: "invalid database URL scheme",
		},
		{
			name:    "missing config file",
			env:     "sqlite:///nonexistent/catalog.db",
			args:    []string{"-a", "color", "--config", "missing.env"},
			wantErr: "failed to read config file missing.env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("OPTIONPRUNER_DATABASE_URL", tt.env)

			out, err := execute(t, "", tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NotContains(t, out, msgDeleting)
		})
	}
}

func TestCleanCodes(t *testing.T) {
	tests := []struct {
		name  string
		codes []string
		want  []string
	}{
		{name: "nil", codes: nil, want: nil},
		{name: "single", codes: []string{"color"}, want: []string{"color"}},
		{name: "repeated flag", codes: []string{"color", " size "}, want: []string{"color", "size"}},
		{name: "comma separated", codes: []string{"color,size,,material"}, want: []string{"color", "size", "material"}},
		{name: "blank", codes: []string{" ", ""}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanCodes(tt.codes))
		})
	}
}
