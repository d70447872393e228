package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iseesync/internal/models"
)

func TestBuildIdentityMap(t *testing.T) {
	t.Run("Should map staged ids to server ids on identical signatures", func(t *testing.T) {
		staged := []models.StagedRecord{
			{UploadID: 1, Name: "Machine A", Type: models.TypeMachine},
			{UploadID: 2, Name: "Transmitter 1", Type: models.TypeTransmitter, UploadPath: []int{1}},
			{UploadID: 3, Name: "MP 1", Type: models.TypeMeasurementPoint, UploadPath: []int{1}},
		}
		server := []models.Asset{
			{ID: "A1", Name: "Machine A", Type: models.TypeMachine},
			{ID: "T1", Name: "Transmitter 1", Type: models.TypeTransmitter, Path: []string{"A1"}},
			{ID: "M1", Name: "MP 1", Type: models.TypeMeasurementPoint, Path: []string{"A1"}},
		}

		idMap := BuildIdentityMap(staged, server)

		assert.Equal(t, map[int]string{1: "A1", 2: "T1", 3: "M1"}, idMap)
	})

	t.Run("Should not collapse records with distinct signatures", func(t *testing.T) {
		staged := []models.StagedRecord{
			{UploadID: 1, Name: "Machine A"},
			{UploadID: 2, Name: "Machine B"},
			{UploadID: 3, Name: "MP 1", UploadPath: []int{1}},
			{UploadID: 4, Name: "MP 1", UploadPath: []int{2}},
		}
		server := []models.Asset{
			{ID: "A", Name: "Machine A"},
			{ID: "B", Name: "Machine B"},
			{ID: "MA", Name: "MP 1", Path: []string{"A"}},
			{ID: "MB", Name: "MP 1", Path: []string{"B"}},
		}

		idMap := BuildIdentityMap(staged, server)

		assert.Equal(t, "MA", idMap[3])
		assert.Equal(t, "MB", idMap[4])
		assert.NotEqual(t, idMap[3], idMap[4])
	})

	t.Run("Should omit staged records without a server counterpart", func(t *testing.T) {
		staged := []models.StagedRecord{
			{UploadID: 1, Name: "Machine A"},
			{UploadID: 2, Name: "Machine Nowhere"},
		}
		server := []models.Asset{
			{ID: "A", Name: "Machine A"},
		}

		idMap := BuildIdentityMap(staged, server)

		assert.Equal(t, "A", idMap[1])
		_, found := idMap[2]
		assert.False(t, found)
	})

	t.Run("Should ignore ancestors outside the compared set", func(t *testing.T) {
		// The server asset's path starts above the pulled subtree; those ids
		// resolve to nothing and must not break the match.
		staged := []models.StagedRecord{
			{UploadID: 1, Name: "Zone 1"},
			{UploadID: 2, Name: "MP 1", UploadPath: []int{1}},
		}
		server := []models.Asset{
			{ID: "Z", Name: "Zone 1", Path: []string{"corp", "factory"}},
			{ID: "M", Name: "MP 1", Path: []string{"corp", "factory", "Z"}},
		}

		idMap := BuildIdentityMap(staged, server)

		assert.Equal(t, "M", idMap[2])
	})

	t.Run("Should be case-sensitive", func(t *testing.T) {
		staged := []models.StagedRecord{{UploadID: 1, Name: "machine a"}}
		server := []models.Asset{{ID: "A", Name: "Machine A"}}

		idMap := BuildIdentityMap(staged, server)
		assert.Empty(t, idMap)
	})

	t.Run("Should keep the later entry on duplicate signatures", func(t *testing.T) {
		staged := []models.StagedRecord{
			{UploadID: 1, Name: "MP 1"},
			{UploadID: 2, Name: "MP 1"},
		}
		server := []models.Asset{
			{ID: "A", Name: "MP 1"},
		}

		idMap := BuildIdentityMap(staged, server)

		require.Len(t, idMap, 1)
		assert.Equal(t, "A", idMap[2])
	})

	t.Run("Should be a pure function of its inputs", func(t *testing.T) {
		staged := []models.StagedRecord{
			{UploadID: 1, Name: "Machine A"},
			{UploadID: 2, Name: "MP 1", UploadPath: []int{1}},
		}
		server := []models.Asset{
			{ID: "A", Name: "Machine A"},
			{ID: "M", Name: "MP 1", Path: []string{"A"}},
		}

		first := BuildIdentityMap(staged, server)
		second := BuildIdentityMap(staged, server)
		assert.Equal(t, first, second)
	})
}
