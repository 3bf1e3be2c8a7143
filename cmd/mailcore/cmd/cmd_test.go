package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zostay/go-mailcore/cmd/mailcore/cmd"
)

// run executes the command tree with quiet logging and returns what it wrote.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "mailcore.yaml")
	logPath := filepath.Join(t.TempDir(), "mailcore.log")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  output: "+logPath+"\n"), 0o600))

	var stdout, stderr bytes.Buffer
	root := cmd.NewRootCmd()
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const simpleMessage = "From: alice@example.com\r\n" +
	"Subject: Hi\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"Hello there\r\n"

func TestEncode_NoAttachments(t *testing.T) {
	out, _, err := run(t, "hello", "encode")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestEncode_Quota(t *testing.T) {
	out, errOut, err := run(t, "hello", "encode", "--quota", "3")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "ENCRYPT_QUOTA_SIZE")
}

func TestEncode_UnknownMode(t *testing.T) {
	_, _, err := run(t, "hello", "encode", "--mode", "fax")
	assert.Error(t, err)
}

func TestDecode_Stdin(t *testing.T) {
	out, _, err := run(t, simpleMessage, "decode", "--encoding", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "Subject: Hi\n")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "Hello there")
}

func TestDecode_Files(t *testing.T) {
	dir := t.TempDir()
	one := writeFile(t, dir, "one.eml", simpleMessage)
	two := writeFile(t, dir, "two.eml", strings.Replace(simpleMessage, "Hi", "Bye", 1))

	out, _, err := run(t, "", "decode", "-j", "2", "--encoding", "text", one, two)
	require.NoError(t, err)

	first := strings.Index(out, "==> "+one+" <==")
	second := strings.Index(out, "==> "+two+" <==")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, out[first:second], "Subject: Hi\n")
	assert.Contains(t, out[second:], "Subject: Bye\n")
}

func TestDecode_Missing(t *testing.T) {
	_, _, err := run(t, "", "decode", filepath.Join(t.TempDir(), "nope.eml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeDecode(t *testing.T) {
	dir := t.TempDir()
	note := writeFile(t, dir, "note.txt", "attached words")
	body := writeFile(t, dir, "body.txt", "Hello body")

	encoded, _, err := run(t, "", "encode", "-m", body, "-a", note)
	require.NoError(t, err)
	assert.Contains(t, encoded, "multipart/mixed")

	msg := writeFile(t, dir, "out.eml", encoded)
	saved := filepath.Join(dir, "saved")

	out, _, err := run(t, "", "decode", "--encoding", "text", "--attachments", saved, msg)
	require.NoError(t, err)
	assert.Contains(t, out, "Hello body")
	assert.Contains(t, out, "Attachment: note.txt")

	got, err := os.ReadFile(filepath.Join(saved, "out.eml", "note.txt"))
	require.NoError(t, err)
	assert.Equal(t, "attached words", string(got))

	tree, _, err := run(t, "", "tree", msg)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(tree), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "container multipart/mixed (2 parts)"))
	assert.True(t, strings.HasPrefix(lines[1], "  text text/plain"))
	assert.True(t, strings.HasPrefix(lines[2], "  attachment "))
	assert.Contains(t, lines[2], `"note.txt"`)
	assert.Contains(t, lines[2], "(14 bytes)")

	rt, _, err := run(t, "", "roundtrip", msg)
	require.NoError(t, err)
	assert.Equal(t, "ok   "+msg+"\n", rt)
}

func TestTree_NotMIME(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.eml", "Content-Type: multipart/mixed\r\n\r\nno boundary here\r\n")

	_, _, err := run(t, "", "tree", bad)
	assert.Error(t, err)
}

func TestDecode_EightBit(t *testing.T) {
	dir := t.TempDir()
	png := "\x89PNG\xff\x00\xc3"
	msg := writeFile(t, dir, "8bit.eml", "MIME-Version: 1.0\r\n"+
		"Content-Type: multipart/mixed; boundary=b\r\n"+
		"\r\n"+
		"--b\r\n"+
		"Content-Type: text/plain; charset=utf-8\r\n"+
		"Content-Transfer-Encoding: 8bit\r\n"+
		"\r\n"+
		"привет\r\n"+
		"--b\r\n"+
		"Content-Type: image/png\r\n"+
		"Content-Disposition: attachment; filename=dot.png\r\n"+
		"Content-Transfer-Encoding: binary\r\n"+
		"\r\n"+
		png+"\r\n"+
		"--b--\r\n")
	saved := filepath.Join(dir, "saved")

	out, _, err := run(t, "", "decode", "--encoding", "text", "--attachments", saved, msg)
	require.NoError(t, err)
	assert.Contains(t, out, "привет")
	assert.Contains(t, out, "Attachment: dot.png (image/png, 7 bytes)")

	got, err := os.ReadFile(filepath.Join(saved, "8bit.eml", "dot.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte(png), got)

	raw, err := os.ReadFile(msg)
	require.NoError(t, err)
	stdinOut, _, err := run(t, string(raw), "decode", "--encoding", "text")
	require.NoError(t, err)
	assert.Contains(t, stdinOut, "привет")
}
