package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iseesync/internal/api"
	"iseesync/internal/models"
)

func sampleTree() []models.Asset {
	return []models.Asset{
		{ID: "F", Name: "Factory", Type: models.TypeFactory},
		{ID: "Z", Name: "Zone 1", Type: models.TypeZone, Path: []string{"F"}},
		{ID: "M", Name: "Pump 7", Type: models.TypeMachine, Path: []string{"F", "Z"}},
		{ID: "MP", Name: "Pump 7 DE", Type: models.TypeMeasurementPoint, Path: []string{"F", "Z", "M"}},
		{ID: "Z2", Name: "Zone 2", Type: models.TypeZone, Path: []string{"F"}},
	}
}

func TestSubtree(t *testing.T) {
	t.Run("Should keep the root and all descendants", func(t *testing.T) {
		subtree := Subtree(sampleTree(), "Zone 1")
		require.Len(t, subtree, 3)

		ids := []string{subtree[0].ID, subtree[1].ID, subtree[2].ID}
		assert.ElementsMatch(t, []string{"Z", "M", "MP"}, ids)
	})

	t.Run("Should return nil for an unknown root", func(t *testing.T) {
		assert.Nil(t, Subtree(sampleTree(), "Zone 99"))
	})

	t.Run("Should match the whole tree from the top node", func(t *testing.T) {
		subtree := Subtree(sampleTree(), "Factory")
		assert.Len(t, subtree, 5)
	})
}

func TestFlatten(t *testing.T) {
	t.Run("Should produce one level column per tree depth", func(t *testing.T) {
		table := Flatten(sampleTree())

		assert.Equal(t, []string{"level1", "level2", "level3", "name", "_id", "type", "path_ids"}, table.Columns)
		require.Len(t, table.Rows, 5)

		// Deepest node carries the full ancestor chain by name.
		mpRow := table.Rows[3]
		assert.Equal(t, []string{"Factory", "Zone 1", "Pump 7", "Pump 7 DE", "MP", "MP", "F/Z/M"}, mpRow)

		// Shallow nodes pad the missing levels.
		rootRow := table.Rows[0]
		assert.Equal(t, "", rootRow[0])
		assert.Equal(t, "Factory", rootRow[3])
	})

	t.Run("Should label unresolvable ancestors as Unknown", func(t *testing.T) {
		assets := []models.Asset{
			{ID: "X", Name: "Orphan", Type: models.TypeMachine, Path: []string{"gone"}},
		}
		table := Flatten(assets)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, "Unknown", table.Rows[0][0])
	})

	t.Run("Should return an empty table for no assets", func(t *testing.T) {
		table := Flatten(nil)
		assert.Empty(t, table.Columns)
		assert.Empty(t, table.Rows)
	})
}

func TestFlattenNetwork(t *testing.T) {
	t.Run("Should walk the mesh and attribute devices to their coordinator", func(t *testing.T) {
		network := []map[string]api.NetworkNode{
			{
				"AA:00": {
					Type: "C",
					Children: map[string]api.NetworkNode{
						"BB:01": {Type: "T"},
						"BB:02": {
							Type: "R",
							Children: map[string]api.NetworkNode{
								"CC:03": {Type: "T"},
							},
						},
					},
				},
			},
		}

		rows := FlattenNetwork(network)
		require.Len(t, rows, 4)

		byMAC := make(map[string]NetworkRow, len(rows))
		for _, r := range rows {
			byMAC[r.MAC] = r
		}

		assert.Equal(t, "", byMAC["AA:00"].Coordinator)
		assert.Equal(t, 2, byMAC["AA:00"].ChildCount)
		assert.Equal(t, "AA:00", byMAC["BB:01"].Coordinator)
		assert.Equal(t, "AA:00", byMAC["CC:03"].Coordinator, "repeater does not take over as coordinator")
	})
}

func TestFlattenTrends(t *testing.T) {
	t.Run("Should unroll one row per statistic", func(t *testing.T) {
		v1, v2 := 4.2, 0.9
		trends := []api.TrendResult{
			{
				ID:     "meas1",
				Asset:  "mp1",
				AcqEnd: "2026-04-01T10:00:00Z",
				Statistics: []struct {
					Status     string   `json:"status"`
					GlobalType string   `json:"global_type"`
					Value      *float64 `json:"value"`
				}{
					{Status: "ok", GlobalType: "velocity", Value: &v1},
					{Status: "alarm", GlobalType: "acceleration", Value: &v2},
				},
			},
		}

		table := FlattenTrends(trends)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"meas1", "mp1", "ok", "velocity", "4.2", "2026-04-01T10:00:00Z"}, table.Rows[0])
		assert.Equal(t, []string{"meas1", "mp1", "alarm", "acceleration", "0.9", "2026-04-01T10:00:00Z"}, table.Rows[1])
	})
}
