package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, csv string, opts CSVOptions) []Row {
	t.Helper()
	rowCh, errCh := StreamRows(context.Background(), strings.NewReader(csv), opts)
	var rows []Row
	for row := range rowCh {
		rows = append(rows, row)
	}
	require.NoError(t, <-errCh)
	return rows
}

func TestStreamRows(t *testing.T) {
	rows := collectRows(t, "Name,Zip\nCorner Deli,10003\nUnion Market,10004\n", CSVOptions{})

	require.Len(t, rows, 2)
	assert.Equal(t, "Corner Deli", rows[0]["Name"])
	assert.Equal(t, "10004", rows[1]["Zip"])
}

func TestStreamRows_NormalizesHeaders(t *testing.T) {
	rows := collectRows(t, "\"Store\nName\",  Zip  Code \nCorner Deli,10003\n", CSVOptions{})

	require.Len(t, rows, 1)
	assert.Equal(t, "Corner Deli", rows[0]["Store Name"], "embedded newlines collapse to spaces")
	assert.Equal(t, "10003", rows[0]["Zip Code"], "repeated whitespace collapses")
}

func TestStreamRows_TrimSpace(t *testing.T) {
	rows := collectRows(t, "Name,Zip\n  Corner Deli ,10003\n", CSVOptions{TrimSpace: true})

	require.Len(t, rows, 1)
	assert.Equal(t, "Corner Deli", rows[0]["Name"])
}

func TestStreamRows_ShortRecord(t *testing.T) {
	rows := collectRows(t, "Name,Zip,Type\nCorner Deli,10003\n", CSVOptions{})

	require.Len(t, rows, 1)
	assert.Equal(t, "10003", rows[0]["Zip"])
	_, ok := rows[0]["Type"]
	assert.False(t, ok, "missing trailing fields are absent, not empty")
}

func TestStreamRows_Empty(t *testing.T) {
	rows := collectRows(t, "", CSVOptions{})
	assert.Empty(t, rows)
}

func TestStreamRows_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rowCh, errCh := StreamRows(ctx, strings.NewReader("Name\na\nb\n"), CSVOptions{})
	for range rowCh {
	}
	assert.Error(t, <-errCh)
}
