package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Terminal statuses of one staged measurement point in a provisioning run.
const (
	StatusDone                 = "done"
	StatusSkippedNoMatch       = "skipped_no_match"
	StatusSkippedNoTransmitter = "skipped_no_transmitter"
	StatusFailed               = "failed"
)

// ProvisionRun records one execution of the replace-relink workflow.
type ProvisionRun struct {
	ID          string     `gorm:"primaryKey" json:"id"`
	ProfileName string     `gorm:"column:profile_name" json:"profile_name"`
	RootName    string     `gorm:"column:root_name" json:"root_name"`
	StagingFile string     `gorm:"column:staging_file" json:"staging_file"`
	DryRun      bool       `gorm:"column:dry_run" json:"dry_run"`
	Done        int        `json:"done"`
	Skipped     int        `json:"skipped"`
	Failed      int        `json:"failed"`
	StartedAt   time.Time  `gorm:"column:started_at" json:"started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// BeforeCreate hook to generate UUID before creating record
func (pr *ProvisionRun) BeforeCreate(tx *gorm.DB) error {
	if pr.ID == "" {
		pr.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for GORM
func (ProvisionRun) TableName() string {
	return "provision_runs"
}

// ProvisionRecord is the per-staged-record outcome of a provisioning run.
// When a replacement asset was created but the old asset could not be
// deleted, both NewAssetID and OldAssetID are set with status failed; that
// row is the operator's pointer to the duplicate pair.
type ProvisionRecord struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	RunID      string    `gorm:"not null;index;column:run_id" json:"run_id"`
	UploadID   int       `gorm:"column:upload_id" json:"upload_id"`
	Name       string    `json:"name"`
	Status     string    `gorm:"not null" json:"status"`
	OldAssetID string    `gorm:"column:old_asset_id" json:"old_asset_id"`
	NewAssetID string    `gorm:"column:new_asset_id" json:"new_asset_id"`
	TaskID     string    `gorm:"column:task_id" json:"task_id"`
	Error      string    `gorm:"type:text" json:"error"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate hook to generate UUID before creating record
func (rec *ProvisionRecord) BeforeCreate(tx *gorm.DB) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for GORM
func (ProvisionRecord) TableName() string {
	return "provision_records"
}
