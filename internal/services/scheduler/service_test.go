package scheduler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCron(t *testing.T) {
	t.Run("Should convert 5-field to 6-field cron", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{
				name:     "Daily at 2 AM",
				input:    "0 2 * * *",
				expected: "0 0 2 * * *",
			},
			{
				name:     "Every 15 minutes",
				input:    "*/15 * * * *",
				expected: "0 */15 * * * *",
			},
			{
				name:     "Every Monday at 9 AM",
				input:    "0 9 * * 1",
				expected: "0 0 9 * * 1",
			},
			{
				name:     "First day of month at midnight",
				input:    "0 0 1 * *",
				expected: "0 0 0 1 * *",
			},
			{
				name:     "At 3:30 PM every day",
				input:    "30 15 * * *",
				expected: "0 30 15 * * *",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := normalizeCron(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			})
		}
	})

	t.Run("Should keep 6-field cron unchanged", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{
				name:  "6-field daily at 2 AM",
				input: "0 0 2 * * *",
			},
			{
				name:  "6-field every 15 minutes",
				input: "0 */15 * * * *",
			},
			{
				name:  "6-field with seconds",
				input: "30 0 2 * * 1",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := normalizeCron(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.input, result)
			})
		}
	})

	t.Run("Should fail with invalid field count", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{
				name:  "Too few fields (4)",
				input: "0 2 * *",
			},
			{
				name:  "Too many fields (7)",
				input: "0 0 2 * * * 2025",
			},
			{
				name:  "Empty string",
				input: "",
			},
			{
				name:  "Single field",
				input: "*",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := normalizeCron(tt.input)
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "invalid cron expression")
			})
		}
	})

	t.Run("Should handle complex cron expressions", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected string
		}{
			{
				name:     "Range (hours 9-17)",
				input:    "0 9-17 * * *",
				expected: "0 0 9-17 * * *",
			},
			{
				name:     "Multiple values",
				input:    "0 8,12,16 * * *",
				expected: "0 0 8,12,16 * * *",
			},
			{
				name:     "Step values",
				input:    "0 */2 * * *",
				expected: "0 0 */2 * * *",
			},
			{
				name:     "Specific days (weekdays)",
				input:    "0 9 * * 1-5",
				expected: "0 0 9 * * 1-5",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				result, err := normalizeCron(tt.input)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			})
		}
	})
}

func TestJobPayloads(t *testing.T) {
	t.Run("Should round-trip a hierarchy snapshot payload", func(t *testing.T) {
		payload := HierarchySnapshotPayload{
			ProfileName: "prod-eu",
			RootName:    "Lessines (CUP)",
			OutputPath:  "/var/lib/iseesync/hierarchy.csv",
		}

		data, err := json.Marshal(payload)
		require.NoError(t, err)

		var decoded HierarchySnapshotPayload
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, payload, decoded)
	})

	t.Run("Should round-trip a provision payload", func(t *testing.T) {
		payload := ProvisionPayload{
			ProfileName: "prod-eu",
			StagingFile: "/var/lib/iseesync/staged.json",
			DryRun:      true,
		}

		data, err := json.Marshal(payload)
		require.NoError(t, err)

		var decoded ProvisionPayload
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, payload, decoded)
	})
}

func TestUpsertJobRequest(t *testing.T) {
	t.Run("Should accept a structured payload", func(t *testing.T) {
		req := UpsertJobRequest{
			Name:    "nightly-snapshot",
			JobType: JobTypeHierarchySnapshot,
			Cron:    "0 2 * * *", // 5-field, normalized on upsert
			Enabled: true,
			Payload: HierarchySnapshotPayload{
				ProfileName: "prod-eu",
				OutputPath:  "hierarchy.csv",
			},
		}

		assert.Equal(t, JobTypeHierarchySnapshot, req.JobType)
		assert.NotNil(t, req.Payload)
	})

	t.Run("Should accept a raw JSON string payload", func(t *testing.T) {
		req := UpsertJobRequest{
			Name:    "weekly-provision",
			JobType: JobTypeProvision,
			Cron:    "0 0 3 * * 1",
			Payload: `{"profile_name":"prod-eu","staging_file":"staged.json"}`,
		}

		assert.IsType(t, "", req.Payload)
	})
}
