package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskClone(t *testing.T) {
	fmin, fmax, noise := 2, 1000, 0.03
	template := &Task{
		PresName: "template",
		Params:   []any{"acquire", 12800, 6666},
		Statistics: map[string][]Statistic{
			"acceleration": {
				{GlobalType: "rms", FMin: &fmin, FMax: &fmax},
				{GlobalType: "dna500", NoiseFactor: &noise},
			},
		},
	}

	t.Run("Should not share statistic pointers with the original", func(t *testing.T) {
		clone := template.Clone()

		stats := clone.Statistics["acceleration"]
		require.Len(t, stats, 2)
		*stats[0].FMin = 99
		*stats[0].FMax = 99
		*stats[1].NoiseFactor = 9.9

		assert.Equal(t, 2, fmin)
		assert.Equal(t, 1000, fmax)
		assert.Equal(t, 0.03, noise)
	})

	t.Run("Should not share the params and statistics slices", func(t *testing.T) {
		clone := template.Clone()
		clone.Params[0] = "changed"
		clone.Statistics["acceleration"][0].GlobalType = "changed"

		assert.Equal(t, "acquire", template.Params[0])
		assert.Equal(t, "rms", template.Statistics["acceleration"][0].GlobalType)
	})
}
