package fetcher

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_Basic(t *testing.T) {
	input := "id,name,city\n1,Acme,Grenoble\n2,Beta,Paris\n"
	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "city"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "Acme", "Grenoble"}, rows[0])
	assert.Equal(t, []string{"2", "Beta", "Paris"}, rows[1])
}

func TestReadCSV_SemicolonDelimited(t *testing.T) {
	input := "id;name\n1;Acme\n"
	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, header)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"1", "Acme"}, rows[0])
}

func TestReadCSV_TrimSpace(t *testing.T) {
	input := "id, name \n1 , Acme \n"
	_, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "Acme"}, rows[0])
}

func TestReadCSV_RaggedRows(t *testing.T) {
	// Legacy exports drop trailing columns on some rows.
	input := "a,b,c\n1,2,3\n4,5\n"
	header, rows, err := ReadCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, header, 3)
	require.Len(t, rows, 2)
	assert.Len(t, rows[1], 2)
}

func TestReadCSV_EmptyFile(t *testing.T) {
	_, _, err := ReadCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header row")
}

func TestReadCSV_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ReadCSV(ctx, strings.NewReader("a,b\n1,2\n"), CSVOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled")
}
