package scheduler

// Job types understood by the scheduler.
const (
	JobTypeHierarchySnapshot = "hierarchy_snapshot"
	JobTypeProvision         = "provision"
)

// JobListResponse represents a scheduled job in list responses.
type JobListResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	JobType   string  `json:"job_type"`
	Cron      string  `json:"cron"`
	Timezone  string  `json:"timezone"`
	Enabled   bool    `json:"enabled"`
	LastRunAt *string `json:"last_run_at"` // ISO 8601 format
	NextRun   *string `json:"next_run"`    // ISO 8601 format
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// UpsertJobRequest represents a request to create or update a scheduled job.
type UpsertJobRequest struct {
	Name     string `json:"name"`
	JobType  string `json:"job_type"` // hierarchy_snapshot or provision
	Cron     string `json:"cron"`
	Timezone string `json:"timezone"`
	Enabled  bool   `json:"enabled"`
	Payload  any    `json:"payload"` // Can be map or string
}

// HierarchySnapshotPayload parameterizes a hierarchy_snapshot job.
type HierarchySnapshotPayload struct {
	ProfileName string `json:"profile_name"`
	RootName    string `json:"root_name,omitempty"`
	OutputPath  string `json:"output_path"`
}

// ProvisionPayload parameterizes a provision job.
type ProvisionPayload struct {
	ProfileName string `json:"profile_name"`
	RootName    string `json:"root_name,omitempty"`
	StagingFile string `json:"staging_file"`
	DryRun      bool   `json:"dry_run,omitempty"`
}
