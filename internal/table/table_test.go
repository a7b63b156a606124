package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "H2", "h3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.WithHeaderAlignment([]Alignment{AlignCenter, AlignCenter, AlignRight})
	table.Append([]string{"ROW1", "ROW2", "foo bar"})
	table.Append([]string{"a", "b", "c"})
	table.Render()

	expected := `
+---------+------+---------+
| HEADER1 |  H2  |      h3 |
+---------+------+---------+
| ROW1    | ROW2 | foo bar |
| a       |    b | c       |
+---------+------+---------+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestShortRows(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf)
	table.Append([]string{"x", "yy"})
	table.Append([]string{"zzz"})
	table.Render()

	expected := `
+-----+----+
| x   | yy |
| zzz |    |
+-----+----+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestColoredTable(t *testing.T) {
	bold := color.New(color.Bold)
	bold.EnableColor()
	green := color.New(color.FgGreen)
	green.EnableColor()

	var buf bytes.Buffer
	table := NewTable(&buf)
	table.WithHeader([]string{"HEADER1", "HEADER2", "HEADER3"})
	table.WithColumnAlignment([]Alignment{AlignLeft, AlignRight, AlignLeft})
	table.Append([]string{bold.Sprint("Bold text"), "12345", green.Sprint("Green text")})
	table.Append([]string{"Normal", bold.Sprint("999"), green.Sprint("More color")})
	table.Render()

	result := buf.String()
	require.Contains(t, result, "\x1b[")

	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	require.Len(t, lines, 6)
	for i, line := range lines {
		require.Equal(t, len(lines[0]), len(stripAnsi(line)), "line %d", i)
	}
}

func TestOffsetsAlignRight(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERANDS"}).
		WithColumnAlignment([]Alignment{AlignRight})
	renderRows(table, [][]string{
		{"0", "LOAD_FAST", "0"},
		{"12", "COMPARE_JUMP_FORWARD", "1 7"},
	})

	expected := `
+--------+----------------------+----------+
| OFFSET | OPCODE               | OPERANDS |
+--------+----------------------+----------+
|      0 | LOAD_FAST            | 0        |
|     12 | COMPARE_JUMP_FORWARD | 1 7      |
+--------+----------------------+----------+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", buf.String())
}

func TestCenterPutsExtraSpaceRight(t *testing.T) {
	require.Equal(t, " ab  ", pad("ab", 5, AlignCenter))
	require.Equal(t, "  ab", pad("ab", 4, AlignRight))
	require.Equal(t, "abc", pad("abc", 2, AlignLeft))
}

func TestWidthIgnoresEscapesAndCountsWideRunes(t *testing.T) {
	red := color.New(color.FgRed)
	red.EnableColor()
	require.Equal(t, 5, width(red.Sprint("frame")))
	require.Equal(t, 4, width("画像"))

	var buf bytes.Buffer
	renderRows(NewTable(&buf), [][]string{
		{red.Sprint("E4002"), "画像"},
		{"x", "ab"},
	})
	expected := `
+-------+------+
| E4002 | 画像 |
| x     | ab   |
+-------+------+
`
	require.Equal(t, strings.TrimSpace(expected)+"\n", stripAnsi(buf.String()))
}

func renderRows(table *Table, rows [][]string) {
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
}
