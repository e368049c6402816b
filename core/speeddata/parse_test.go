package speeddata

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/roadcast/core/model"
)

func oversizeRow() string {
	return "1,1,9," + strings.Repeat("x", 2*maxLineBytes)
}

func TestLoaderSkipsOversizeRow(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "speeddata_Aug.csv", "1,1,1,45.5", "1,1,2,40", oversizeRow(), "1,1,3,42.3")

	l := NewLoader(Dir{Path: dir}, DefaultCalendar(), 1, nil)
	s, err := l.Load(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, s, 3)
	assert.Equal(t, 42.3, s[2].Speed)

	sc := NewScanner(Dir{Path: dir}, DefaultCalendar(), nil)
	sources, err := sc.Sources(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.DataSource{
		{Filename: "speeddata_Aug.csv", Month: "Aug", RoadCount: 1, DayCount: 1},
	}, sources)
}

type failingReader struct {
	r   io.Reader
	err error
}

func (f *failingReader) Read(p []byte) (int, error) {
	n, err := f.r.Read(p)
	if err == io.EOF {
		return n, f.err
	}
	return n, err
}

func TestScanRowsKeepsRowsBeforeReadError(t *testing.T) {
	boom := errors.New("disk gone")
	r := &failingReader{r: strings.NewReader(header + "\n1,1,1,10\n1,1,2,20\n1,1,3"), err: boom}

	var lines []string
	err := scanRows(context.Background(), r, func(line string) { lines = append(lines, line) })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"1,1,1,10", "1,1,2,20", "1,1,3"}, lines)
}

func TestScanRowsHandlesCRLFAndMissingTrailingNewline(t *testing.T) {
	var lines []string
	err := scanRows(context.Background(), strings.NewReader(header+"\r\n1,1,1,10\r\n\n1,1,2,20"), func(line string) {
		lines = append(lines, line)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1,1,1,10", "", "1,1,2,20"}, lines)
}
