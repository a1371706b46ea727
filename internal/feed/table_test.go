package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{"comma", "time,value\n08:00,1\n09:00,2\n", ','},
		{"tab", "time\tvalue\n08:00\t1\n09:00\t2\n", '\t'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
		{"space", "a b\n1 2\n3 4\n", ' '},
		{"colon", "a:b\n1:2\n", ':'},
		{"bom", "\xEF\xBB\xBFa,b\n1,2\n", ','},
		{"single column of times", "time\n08:00:00\n09:30:00\n", ','},
		{"timestamps with spaces", "ts,n\n2024-01-01 10:00:00,1\n2024-01-02 11:00:00,2\n", ','},
		{"headerless index and time", "1,06:00:00\n2,07:30:00\n3,08:15:00\n", ','},
		{"headerless timestamps", "2023-07-12 06:00:00\n2023-07-13 07:30:00\n2023-07-14 08:15:00\n", ','},
		{"tab with times", "06:00:00\t1\n07:30:00\t2\n", '\t'},
		{"headerless times", "06:00:00\n07:30:00\n08:15:00\n", ','},
		{"headerless short times", "6:00\n7:30\n", ','},
		{"quoted commas", "name,ts\n\"a,b\",2024-01-01\n\"c,d\",2024-01-02\n", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectDelimiter([]byte(tt.sample))
			require.NoError(t, err)
			assert.Equal(t, DelimiterName(tt.want), DelimiterName(got))
		})
	}
}

func TestDetectDelimiter_OnlyChecksLeadingRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("a,b\n")
	for i := 0; i < CheckRows-1; i++ {
		b.WriteString("1,2\n")
	}
	b.WriteString("1,2,3\n")

	got, err := DetectDelimiter([]byte(b.String()))
	require.NoError(t, err)
	assert.Equal(t, ',', got)
}

func TestDetectDelimiter_Errors(t *testing.T) {
	_, err := DetectDelimiter([]byte("  \n"))
	assert.ErrorIs(t, err, ErrNoDialect)

	_, err = DetectDelimiter([]byte("a,b\n1,2,3\n"))
	assert.ErrorIs(t, err, ErrNoDialect)
}

func TestStripBOM(t *testing.T) {
	assert.Equal(t, []byte("abc"), StripBOM([]byte("\xEF\xBB\xBFabc")))
	assert.Equal(t, []byte("abc"), StripBOM([]byte("abc")))
}

func TestRead_WithHeader(t *testing.T) {
	input := "\xEF\xBB\xBFid, Time ,value\n1,08:00,3\n2,09:00,\n3,,5\n"

	table, err := Read(strings.NewReader(input), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, ',', table.Delimiter)
	assert.Equal(t, []string{"id", "Time", "value"}, table.Header)
	assert.Len(t, table.Rows, 3)

	values, err := table.Column("time")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:00", ""}, values)

	values, err = table.Column("3")
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "", "5"}, values)

	_, err = table.Column("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: id, Time, value")
}

func TestRead_HeaderlessTimes(t *testing.T) {
	table, err := Read(strings.NewReader("1,06:00:00\n2,07:30:00\n3,08:15:00\n"), ReadOptions{NoHeader: true})
	require.NoError(t, err)
	assert.Equal(t, ',', table.Delimiter)
	assert.Equal(t, []string{"column_1", "column_2"}, table.Header)

	values, err := table.Column("column_2")
	require.NoError(t, err)
	assert.Equal(t, []string{"06:00:00", "07:30:00", "08:15:00"}, values)

	table, err = Read(strings.NewReader("2023-07-12 06:00:00\n2023-07-13 07:30:00\n"), ReadOptions{NoHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"column_1"}, table.Header)

	values, err = table.Column("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-07-12 06:00:00", "2023-07-13 07:30:00"}, values)

	table, err = Read(strings.NewReader("06:00:00\n07:30:00\n"), ReadOptions{NoHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"column_1"}, table.Header)
	assert.Equal(t, [][]string{{"06:00:00"}, {"07:30:00"}}, table.Rows)
}

func TestRead_ShortRows(t *testing.T) {
	table, err := Read(strings.NewReader("a,b\n1,2\n3\n"), ReadOptions{Delimiter: ','})
	require.NoError(t, err)

	values, err := table.Column("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", ""}, values)
}

func TestRead_NoHeaderAndExplicitDelimiter(t *testing.T) {
	input := "08:00:00\n09:00:00\n10:00:00\n"

	table, err := Read(strings.NewReader(input), ReadOptions{Delimiter: '\t', NoHeader: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"column_1"}, table.Header)

	values, err := table.Column("column_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00:00", "09:00:00", "10:00:00"}, values)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""), ReadOptions{})
	assert.Error(t, err)
}

func TestDelimiterName(t *testing.T) {
	assert.Equal(t, "comma", DelimiterName(','))
	assert.Equal(t, "tab", DelimiterName('\t'))
	assert.Equal(t, "space", DelimiterName(' '))
	assert.Equal(t, "';'", DelimiterName(';'))
}
