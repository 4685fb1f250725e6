package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/examgrid/core/factory"
)

func TestFromStrings(t *testing.T) {
	tbl, err := FromStrings("s", [][]string{
		{" Company ", "Start", "Company"},
		{"ACME", "8/1/2025", "dup"},
		{"", " ", ""},
		{"Beta"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Company", "Start", "Company"}, tbl.Headers)
	require.Equal(t, 2, tbl.Len())

	r := tbl.Record(0)
	assert.Equal(t, "ACME", r["Company"])
	assert.Equal(t, "8/1/2025", r["Start"])

	short := tbl.Record(1)
	assert.Equal(t, "Beta", short["Company"])
	assert.Nil(t, short["Start"])
	assert.Empty(t, tbl.Record(5))

	_, err = FromStrings("s", nil)
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestStaticHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Static{}.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistry(t *testing.T) {
	require.NoError(t, Register("test-static", func(map[string]any) (Source, error) {
		return Static{Table: Table{Name: "x"}}, nil
	}))
	s, err := New(factory.ModuleConfig{Type: "test-static"})
	require.NoError(t, err)
	tbl, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "x", tbl.Name)

	_, err = New(factory.ModuleConfig{Type: "missing"})
	assert.Error(t, err)
}
