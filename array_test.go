package cminic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayPool(t *testing.T) {
	t.Run("alloc returns stable, increasing handles", func(t *testing.T) {
		p := newArrayPool()
		h1 := p.Alloc(4, 0)
		h2 := p.Alloc(10, 1)
		assert.Equal(t, ArrayHandle(0), h1)
		assert.Equal(t, ArrayHandle(1), h2)
	})

	t.Run("set then get round-trips for every in-bounds index", func(t *testing.T) {
		p := newArrayPool()
		h := p.Alloc(5, 0)
		for i := int64(0); i < 5; i++ {
			require.NoError(t, p.Set(h, i, i*i))
		}
		for i := int64(0); i < 5; i++ {
			v, err := p.Get(h, i)
			require.NoError(t, err)
			assert.Equal(t, i*i, v)
		}
	})

	t.Run("freshly allocated cells read back zero", func(t *testing.T) {
		p := newArrayPool()
		h := p.Alloc(3, 0)
		v, err := p.Get(h, 1)
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("out-of-bounds access is rejected", func(t *testing.T) {
		p := newArrayPool()
		h := p.Alloc(3, 0)

		_, err := p.Get(h, 3)
		require.Error(t, err)
		var evalErr EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.Equal(t, ErrOOM, evalErr.Kind)

		require.Error(t, p.Set(h, -1, 1))
	})

	t.Run("an invalid handle is rejected", func(t *testing.T) {
		p := newArrayPool()
		_, err := p.Get(ArrayHandle(7), 0)
		require.Error(t, err)
	})
}
