package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cognitive = `Bayley-4 Score Report
Subtest Score Summary
Subtest Total Raw Score Scaled Score Age Equivalent
Cognitive 62 11 3:4
Receptive Communication 30 8 2:9
Expressive Communication 33 9 2:11
Fine Motor 40 12 3:6
Gross Motor 55 7 2:8
Composite Score Summary
Domain Sum of Scaled Scores Composite Score Percentile Rank 95% Confidence Interval Qualitative Descriptor
Cognitive 11 105 63 98-111 Average
Language 17 88 21 82-95 Low Average
Motor 19 97 42 90-104 Average
`

const social = `Social-Emotional and Adaptive Behavior Questionnaire
Subtest Score Summary
Communication 24 9
Community Use 15 10
Functional Pre-Academics 12 8
Home Living 20 11
Health and Safety 18 9
Leisure 22 10
Self-Care 19 7
Self-Direction 21 9
Social 25 12
Motor 30 10
Composite Score Summary
Social-Emotional 10 100 50
General Adaptive Composite 95 95 37
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestInstruments(t *testing.T) {
	out, err := execute(t, "instruments")
	require.NoError(t, err)
	assert.Contains(t, out, "TAG")
	assert.Contains(t, out, "bayley4_cognitive")
	assert.Contains(t, out, "clinical_notes")
}

func TestGenerate(t *testing.T) {
	in := t.TempDir()
	outDir := t.TempDir()

	out, err := execute(t, "generate",
		"--file", "bayley4_cognitive="+writeFile(t, in, "cognitive.txt", cognitive),
		"--file", "bayley4_social="+writeFile(t, in, "social.txt", social),
		"--name", "Ana Lopez",
		"--dob", "2020-03-15",
		"--encounter", "2023-06-01",
		"--format", "json,docs",
		"--type", "basic",
		"--out", outDir,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "session ")

	matches, err := filepath.Glob(filepath.Join(outDir, "*", "ana-lopez-2023-06-01.*"))
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestGenerateErrors(t *testing.T) {
	in := t.TempDir()
	cog := writeFile(t, in, "cognitive.txt", cognitive)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing core", []string{"--file", "bayley4_cognitive=" + cog, "--name", "Ana", "--dob", "2020-03-15"}, "Bayley-4 Social-Emotional"},
		{"bad file spec", []string{"--file", cog}, "want instrument=path"},
		{"unknown instrument", []string{"--file", "mri=" + cog}, "unknown instrument"},
		{"bad date", []string{"--file", "bayley4_cognitive=" + cog, "--dob", "someday"}, "--dob"},
		{"bad strategy", []string{"--file", "bayley4_cognitive=" + cog, "--strategy", "oracle"}, "--strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", "--out", t.TempDir()}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
