package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const groupTemplate = `{{define "HEADER"}}<people lang="{{.options.lang}}">{{end}}` +
	`{{define "RECORD"}}  <person name="{{.data.name}}" age="{{.data.age}}"/>{{end}}` +
	`{{define "FOOTER"}}</people>{{end}}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewConvertCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestCommandTemplate(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "people.tsv", "name\tage\nAlice\t30\nBob\t\n")
	tmpl := writeTemp(t, dir, "people.tmpl", groupTemplate)

	out, err := execute(t, "-i", input, "-t", tmpl, "-f", "-p", "lang:en")
	require.NoError(t, err)

	assert.Contains(t, out, "Convert '"+input+"' with template '"+tmpl+"'")
	assert.Contains(t, out, "2 rows converted [time taken: ")
	assert.NotContains(t, out, "malformed")
	assert.Equal(t, `<people lang="en">
  <person name="Alice" age="30"/>
  <person name="Bob" age=""/>
</people>
`, readFile(t, input+".txt"))
}

func TestCommandExportFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "people.csv", "name,age\nAlice,30\n")
	output := filepath.Join(dir, "people.md")

	out, err := execute(t, "-i", input, "-o", output, "-d", "comma", "-f", "--format", "markdown")
	require.NoError(t, err)

	assert.Contains(t, out, "Convert '"+input+"' to markdown")
	assert.Equal(t, "| name  | age |\n| ----- | --- |\n| Alice | 30  |\n", readFile(t, output))
}

func TestCommandJSONInput(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "people.json", `[{"name":"Alice","age":30}]`)

	_, err := execute(t, "-i", input, "--format", "csv")
	require.NoError(t, err)
	assert.Equal(t, "name,age\nAlice,30\n", readFile(t, input+".csv"))
}

func TestCommandMalformedRows(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "bad.tsv", "name\nAlice\n\"Bob\n")

	out, err := execute(t, "-i", input, "-f", "--format", "jsonl")
	require.NoError(t, err)
	assert.Contains(t, out, "1 malformed rows skipped")
	assert.Contains(t, out, "1 rows converted")
	assert.Equal(t, "{\"name\":\"Alice\"}\n", readFile(t, input+".jsonl"))
}

func TestCommandStrict(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "bad.tsv", "name\nAlice\n\"Bob\n")

	_, err := execute(t, "-i", input, "-f", "--format", "jsonl", "--strict")
	assert.ErrorContains(t, err, "conversion failed")
	assert.ErrorContains(t, err, "line 3")
}

func TestCommandValidation(t *testing.T) {
	_, err := execute(t, "--format", "table", "-d", "ab")
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid input")
	assert.ErrorContains(t, err, "unsupported format")
	assert.ErrorContains(t, err, "invalid delimiter")
}

func TestCommandRejectsArgs(t *testing.T) {
	_, err := execute(t, "stray")
	assert.Error(t, err)
}

func TestCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "-i", filepath.Join(dir, "absent.tsv"), "--format", "json")
	assert.ErrorContains(t, err, "read input")
}

func TestCommandConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "people.txt", "name;age\nAlice;30\n")
	config := writeTemp(t, dir, "steleto.yaml", "input: "+input+"\ndelimiter: semicolon\nfields: true\nformat: csv\n")

	_, err := execute(t, "--config", config)
	require.NoError(t, err)
	assert.Equal(t, "name,age\nAlice,30\n", readFile(t, input+".csv"))
}

func TestCommandFlagOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "people.txt", "name;age\nAlice;30\n")
	config := writeTemp(t, dir, "steleto.yaml", "input: "+input+"\ndelimiter: semicolon\nfields: true\nformat: csv\n")

	_, err := execute(t, "--config", config, "--format", "tsv")
	require.NoError(t, err)
	assert.Equal(t, "name\tage\nAlice\t30\n", readFile(t, input+".tsv"))
}

func TestCommandEnvironment(t *testing.T) {
	dir := t.TempDir()
	input := writeTemp(t, dir, "people.txt", "a|b\n")
	t.Setenv("STELETO_DELIMITER", "pipe")
	t.Setenv("STELETO_FORMAT", "jsonl")

	_, err := execute(t, "-i", input)
	require.NoError(t, err)
	assert.Equal(t, "{\"field1\":\"a\",\"field2\":\"b\"}\n", readFile(t, input+".jsonl"))
}

func TestCommandMissingConfigFile(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--config", filepath.Join(dir, "absent.yaml"))
	assert.ErrorContains(t, err, "read config")
}
