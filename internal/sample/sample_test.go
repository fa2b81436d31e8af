package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForGIF(t *testing.T) {
	t.Run("fewer frames than requested selects every index", func(t *testing.T) {
		plan := ForGIF(3, 6)
		assert.Equal(t, []int{0, 1, 2}, plan.Indices)
		assert.Equal(t, 6, plan.Limit)
	})

	t.Run("equal frames and requested selects every index", func(t *testing.T) {
		plan := ForGIF(6, 6)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, plan.Indices)
	})

	t.Run("uniform spread", func(t *testing.T) {
		plan := ForGIF(10, 3)
		assert.Equal(t, []int{0, 3, 6}, plan.Indices)
	})

	t.Run("fractional step floors each pick", func(t *testing.T) {
		plan := ForGIF(10, 4)
		assert.Equal(t, []int{0, 2, 5, 7}, plan.Indices)
	})

	t.Run("requested close to total", func(t *testing.T) {
		// step=1.25: floor(0, 1.25, 2.5, 3.75)
		plan := ForGIF(5, 4)
		assert.Equal(t, []int{0, 1, 2, 3}, plan.Indices)
	})

	t.Run("spread properties hold across sizes", func(t *testing.T) {
		for total := 1; total <= 40; total++ {
			for requested := 1; requested <= 12; requested++ {
				plan := ForGIF(total, requested)
				indices := plan.Indices

				if total <= requested {
					require.Len(t, indices, total, "total=%d requested=%d", total, requested)
				} else {
					require.Len(t, indices, requested, "total=%d requested=%d", total, requested)
				}

				require.Equal(t, 0, indices[0], "first pick must be frame 0")
				for i, idx := range indices {
					require.Less(t, idx, total, "total=%d requested=%d", total, requested)
					if i > 0 {
						require.Greater(t, idx, indices[i-1],
							"indices must be strictly increasing: total=%d requested=%d got %v",
							total, requested, indices)
					}
				}
			}
		}
	})
}

func TestForVideo(t *testing.T) {
	t.Run("derives rate from duration", func(t *testing.T) {
		plan := ForVideo(5.0, 4)
		assert.InDelta(t, 0.8, plan.TargetFPS, 1e-9)
		assert.Equal(t, 4, plan.Limit)
		assert.Nil(t, plan.Indices)
	})

	t.Run("rate is floored at the minimum", func(t *testing.T) {
		plan := ForVideo(100.0, 1)
		assert.InDelta(t, MinTargetFPS, plan.TargetFPS, 1e-9)
	})

	t.Run("unknown duration means first frames in decode order", func(t *testing.T) {
		plan := ForVideo(0, 6)
		assert.Zero(t, plan.TargetFPS)
		assert.Equal(t, 6, plan.Limit)
	})

	t.Run("negative duration treated as unknown", func(t *testing.T) {
		plan := ForVideo(-1, 3)
		assert.Zero(t, plan.TargetFPS)
		assert.Equal(t, 3, plan.Limit)
	})
}
