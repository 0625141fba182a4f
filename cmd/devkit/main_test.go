package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--log-level", "off"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootHelp(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := run(t, "", "--help")
	require.NoError(t, err)
	for _, sub := range []string{"format", "minify", "diff", "convert", "schema", "stats", "markdown", "jwt"} {
		require.Contains(t, out, sub)
	}
}

func TestFormatAndMinify(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := run(t, `{"b":1,"a":[]}`, "format", "--indent", "4")
	require.NoError(t, err)
	require.Equal(t, "{\n    \"b\": 1,\n    \"a\": []\n}\n", out)

	out, err = run(t, "{ \"b\" : [1, 2] }", "minify")
	require.NoError(t, err)
	require.Equal(t, "{\"b\":[1,2]}\n", out)

	_, err = run(t, `{"b":`, "format")
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}

func TestFormatMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeFile(t, dir, "a.json", `[1]`)
	b := writeFile(t, dir, "b.json", `{"x":true}`)
	bad := writeFile(t, dir, "bad.json", `{`)

	out, err := run(t, "", "minify", a, b, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.json")
	require.Equal(t, "==> "+a+" <==\n[1]\n==> "+b+" <==\n{\"x\":true}\n", out)

	_, err = run(t, "", "format", "--write", b)
	require.NoError(t, err)
	data, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"x\": true\n}\n", string(data))
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	left := writeFile(t, dir, "left.json", `{"name":"John","age":30}`)
	right := writeFile(t, dir, "right.json", `{"name":"Jane","age":30,"city":"NYC"}`)

	out, err := run(t, "", "diff", left, right)
	require.NoError(t, err)
	require.Equal(t, "name: modified (John → Jane)\ncity: added (NYC)\n\n1 added, 0 removed, 1 modified\n", out)

	out, err = run(t, "", "--indent", "min", "diff", "-o", "delta", left, right)
	require.NoError(t, err)
	require.Equal(t, "{\"name\":[\"John\",\"Jane\"],\"city\":[\"NYC\"]}\n", out)

	out, err = run(t, "", "diff", left, left)
	require.NoError(t, err)
	require.Equal(t, "No differences\n", out)

	_, err = run(t, "", "diff", "-o", "table", left, right)
	require.Error(t, err)
}

func TestDiffReportsInvalidSide(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	left := writeFile(t, dir, "left.json", `{"a":1}`)
	right := writeFile(t, dir, "right.json", `{"a":`)

	_, err := run(t, "", "diff", left, right)
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "right: "))
}

func TestConvertSchemaStats(t *testing.T) {
	t.Chdir(t.TempDir())
	input := `[{"id":1,"tags":["a"]},{"id":2}]`

	out, err := run(t, input, "convert", "csv")
	require.NoError(t, err)
	require.Equal(t, "id,tags\n1,\"[\"\"a\"\"]\"\n2,\n", out)

	out, err = run(t, `{"a":{"b":1}}`, "convert", "yaml")
	require.NoError(t, err)
	require.Equal(t, "a:\n  b: 1\n", out)

	out, err = run(t, input, "--indent", "min", "schema")
	require.NoError(t, err)
	require.Contains(t, out, `"required":["id"]`)

	out, err = run(t, input, "--indent", "min", "stats")
	require.NoError(t, err)
	require.Contains(t, out, `"objects":2`)
}

func TestSchemaMergeAndStatsTotal(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	a := writeFile(t, dir, "a.json", `{"id":1,"name":"a"}`)
	b := writeFile(t, dir, "b.json", `{"id":2,"tags":[true]}`)
	bad := writeFile(t, dir, "bad.json", `{"id":`)

	out, err := run(t, "", "--indent", "min", "schema", "--merge", a, b)
	require.NoError(t, err)
	require.NotContains(t, out, "==>")
	require.Contains(t, out, `"required":["id"]`)
	require.Contains(t, out, `"name":{"type":["string"]}`)

	out, err = run(t, "", "--indent", "min", "stats", "--total", a, b)
	require.NoError(t, err)
	require.Equal(t, `{"objects":2,"arrays":1,"strings":1,"numbers":2,"booleans":1,"nulls":0,"keys":4,"maxDepth":2}`+"\n", out)

	_, err = run(t, "", "schema", "--merge", a, bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.json")

	_, err = run(t, "", "stats", "--total", bad)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad.json")
}

func TestMarkdown(t *testing.T) {
	t.Chdir(t.TempDir())
	out, err := run(t, "# Title\n\n```mermaid\ngraph TD;\n```\n", "markdown")
	require.NoError(t, err)
	require.Contains(t, out, `<h1 id="title">Title</h1>`)
	require.Contains(t, out, `<pre class="mermaid">`)
}

func TestJWT(t *testing.T) {
	t.Chdir(t.TempDir())
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "42"}).SignedString([]byte("k"))
	require.NoError(t, err)

	out, err := run(t, "", "jwt", "decode", raw)
	require.NoError(t, err)
	require.Contains(t, out, `"sub": "42"`)
	require.Contains(t, out, `"alg": "HS256"`)

	out, err = run(t, raw+"\n", "jwt", "verify", "--secret", "k")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Signature valid (HS256, hmac key)\n"))

	_, err = run(t, "", "jwt", "verify", "--secret", "wrong", raw)
	require.Error(t, err)

	_, err = run(t, "", "jwt", "verify", raw)
	require.Error(t, err)
}
