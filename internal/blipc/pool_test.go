package blipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGetOutOfRangeOrHoleIsNil(t *testing.T) {
	var p Pool[int]
	assert.Nil(t, p.Get(-1))
	assert.Nil(t, p.Get(0))

	v := 5
	p.Set(3, &v)
	require.Equal(t, 4, p.Len())
	assert.Nil(t, p.Get(1))
	assert.Equal(t, &v, p.Get(3))
}

func TestPoolResolveAppendsAtFirstEmpty(t *testing.T) {
	var p Pool[int]
	a, b, cc := 1, 2, 3
	p.Set(0, &a)
	p.Set(2, &cc)
	_ = b

	idx, entry := p.Resolve(-1, func() *int { v := 99; return &v }, nil)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 99, *entry)

	idx2, _ := p.Resolve(-1, func() *int { v := 100; return &v }, nil)
	assert.Equal(t, 3, idx2)
}

func TestPoolResolveExistingInvokesOnExisting(t *testing.T) {
	var p Pool[int]
	v := 1
	p.Set(0, &v)

	idx, entry := p.Resolve(0, func() *int { panic("should not allocate") }, func(existing *int) *int {
		*existing = 2
		return existing
	})
	assert.Equal(t, 0, idx)
	assert.Equal(t, 2, *entry)
}

func TestPoolResetKeepCapacity(t *testing.T) {
	var p Pool[int]
	v := 1
	p.Set(0, &v)

	p.Reset(true)
	assert.Equal(t, 0, p.Len())

	p.Reset(false)
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.All())
}
