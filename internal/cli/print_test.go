package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/woql/internal/ir"
	"github.com/roach88/woql/woql"
)

const chainedTriples = `{"@type":"And","and":[` + personTriple + `,` +
	`{"@type":"Triple",` +
	`"subject":{"@type":"NodeValue","variable":"X"},` +
	`"predicate":{"@type":"NodeValue","node":"@schema:name"},` +
	`"object":{"@type":"Value","variable":"Name"}}]}`

func TestPrint_SingleFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.json", personTriple)

	out, _, err := execute(t, "", "print", path)
	require.NoError(t, err)
	assert.Equal(t, personTripleSource+"\n", out)
}

func TestPrint_Fluent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.json", chainedTriples)

	out, _, err := execute(t, "", "print", "--fluent", path)
	require.NoError(t, err)
	assert.Equal(t, "woql.Triple(\"v:X\", \"rdf:type\", \"@schema:Person\").\n"+
		"\tTriple(\"v:X\", \"@schema:name\", \"v:Name\")\n", out)

	out, _, err = execute(t, "", "print", path)
	require.NoError(t, err)
	assert.Equal(t, "woql.And(\n"+
		"\twoql.Triple(\"v:X\", \"rdf:type\", \"@schema:Person\"),\n"+
		"\twoql.Triple(\"v:X\", \"@schema:name\", \"v:Name\"),\n"+
		")\n", out)
}

func TestPrint_Indent(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.json", chainedTriples)

	out, _, err := execute(t, "", "print", "--indent", "2", path)
	require.NoError(t, err)
	assert.Equal(t, "woql.And(\n"+
		"\t\t\twoql.Triple(\"v:X\", \"rdf:type\", \"@schema:Person\"),\n"+
		"\t\t\twoql.Triple(\"v:X\", \"@schema:name\", \"v:Name\"),\n"+
		"\t\t)\n", out)
}

func TestPrint_KeepsArgumentOrder(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "c.json", `{"@type":"True"}`),
		writeFile(t, dir, "a.json", personTriple),
		writeFile(t, dir, "b.json", `{"@type":"Limit","limit":3,"query":{"@type":"True"}}`),
	}

	out, _, err := execute(t, "", append([]string{"print"}, files...)...)
	require.NoError(t, err)
	assert.Equal(t, "// "+files[0]+"\nwoql.True()\n"+
		"\n// "+files[1]+"\n"+personTripleSource+"\n"+
		"\n// "+files[2]+"\nwoql.Limit(3, woql.True())\n", out)
}

func TestPrint_Stdin(t *testing.T) {
	out, _, err := execute(t, personTriple, "print", "-")
	require.NoError(t, err)
	assert.Equal(t, personTripleSource+"\n", out)
}

func TestPrint_StdinOnlyOnce(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.json", personTriple)

	out, _, err := execute(t, personTriple, "print", "-", path, "-")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, "Error [E001]: stdin (\"-\") can be read only once\n", out)
}

func TestPrint_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "q.json", personTriple)

	out, _, err := execute(t, "", "--format", "json", "print", path)
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []PrintedQuery `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, path, resp.Data[0].File)
	assert.Equal(t, personTripleSource, resp.Data[0].Source)

	q, err := woql.Decode([]byte(personTriple))
	require.NoError(t, err)
	ast, err := q.ToIR()
	require.NoError(t, err)
	assert.Equal(t, ir.MustQueryHash(ast), resp.Data[0].Hash)
}

func TestPrint_DecodeError(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.json", personTriple)
	bad := writeFile(t, dir, "bad.json", `{"@type":"Frobnicate"}`)

	out, _, err := execute(t, "", "print", good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "[E002]")
	assert.Contains(t, out, "Error [E002]")
	assert.Contains(t, out, "bad.json")
	assert.NotContains(t, out, personTripleSource, "nothing is printed when a file fails")
}

func TestPrint_DecodeErrorJSON(t *testing.T) {
	bad := writeFile(t, t.TempDir(), "bad.json", `{"@type":"Limit","limit":-1,"query":{"@type":"True"}}`)

	out, _, err := execute(t, "", "--format", "json", "print", bad)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDecode, resp.Error.Code)

	details, ok := resp.Error.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, bad, details["file"])
	assert.Equal(t, "INVALID_ARGUMENT_STRUCTURE", details["woql_code"])
}

func TestPrint_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")

	out, _, err := execute(t, "", "print", missing)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]: file not found: "+missing)
}

func TestPrint_NegativeIndent(t *testing.T) {
	_, _, err := execute(t, "", "print", "--indent", "-1", "q.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestPrint_RequiresAnArgument(t *testing.T) {
	_, _, err := execute(t, "", "print")
	require.Error(t, err)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
	assert.Equal(t, "abc", shortHash("abc"))
}
