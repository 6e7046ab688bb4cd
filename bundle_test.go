package nprovide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundle(t *testing.T) {
	t.Parallel()
	_, _, c := declareABC(t)
	p1 := mustGet(t, c, "p1")
	p3 := mustGet(t, c, "p3")

	b, err := c.Bundle(p3, p1)
	require.NoError(t, err)
	assert.Same(t, c, b.Catalog())
	assert.True(t, c.IsBundleOwner(b))
	assert.Equal(t, []string{"p3", "p1"}, b.Names())
	assert.Equal(t, map[string]Provider{"p1": p1, "p3": p3}, b.Providers())
	assert.Equal(t, "Bundle(C: p3, p1)", b.String())

	got, err := b.Get("p1")
	require.NoError(t, err)
	assert.Same(t, p1, got)
	assert.True(t, b.Has("p3"))

	assert.True(t, c.Has("p2"))
	assert.False(t, b.Has("p2"))
	_, err = b.Get("p2")
	assert.ErrorIs(t, err, ErrUndefinedProvider, "names outside the bundle are undefined even if the catalog has them")
}

func TestBundleRejects(t *testing.T) {
	t.Parallel()
	a, _, c := declareABC(t)
	p3 := mustGet(t, c, "p3")

	_, err := c.Bundle(p3, nil)
	assert.ErrorIs(t, err, ErrInvalidProvider)
	_, err = c.Bundle(NewValue("stranger"))
	assert.ErrorIs(t, err, ErrInvalidProvider)
	_, err = a.Bundle(p3)
	assert.ErrorIs(t, err, ErrInvalidProvider, "p3 belongs to C, not A")
	_, err = c.Bundle(p3, p3)
	assert.ErrorIs(t, err, ErrDuplicateBinding)

	b, err := a.Bundle()
	require.NoError(t, err)
	assert.False(t, c.IsBundleOwner(b))
	assert.False(t, c.IsBundleOwner(nil))
}
