package console

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusPlainWriter(t *testing.T) {
	t.Setenv("COLUMNS", "")
	var buf bytes.Buffer
	p := New(&buf)
	p.Status(Success, "  Query successful!  ")
	require.Equal(t, "Query successful!\n", buf.String())
}

func TestStatusWrapsToColumns(t *testing.T) {
	t.Setenv("COLUMNS", "7")
	var buf bytes.Buffer
	New(&buf).Statusf(Info, "%s %s %s", "aaa", "bbb", "ccc")
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "aaa bbb", strings.TrimSpace(lines[0]))
	require.Equal(t, "ccc", strings.TrimSpace(lines[1]))
}

func TestRaw(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)
	p.Raw("{}")
	p.Raw("done\n")
	require.Equal(t, "{}\ndone\n", buf.String())
}

func TestWidth(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("COLUMNS", "")
	require.Equal(t, 80, Width(&buf, 80))
	t.Setenv("COLUMNS", "120")
	require.Equal(t, 120, Width(&buf, 80))
	t.Setenv("COLUMNS", "wide")
	require.Equal(t, 80, Width(&buf, 80))
	require.False(t, IsTerminal(&buf))
}

func TestWidthRegularFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	require.False(t, IsTerminal(f))
	t.Setenv("COLUMNS", "100")
	require.Equal(t, 100, Width(f, 80))
}

func TestKindString(t *testing.T) {
	require.Equal(t, "info", Info.String())
	require.Equal(t, "success", Success.String())
	require.Equal(t, "error", Error.String())
}
