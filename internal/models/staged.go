package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// StagedRecord is a locally authored asset awaiting reconciliation against
// the server tree. UploadID is the locally assigned integer id; UploadPath
// mirrors Asset.Path but references other staged records by their upload ids.
// Staged records are read from the staging file and never mutated.
type StagedRecord struct {
	UploadID   int       `json:"upload_id"`
	Name       string    `json:"name"`
	Type       AssetType `json:"t"`
	UploadPath []int     `json:"upload_path"`

	// Measurement-point attributes.
	Speed               *int   `json:"speed,omitempty"`
	DNA                 bool   `json:"dna,omitempty"`
	TempOnly            bool   `json:"temp_only,omitempty"`
	TransmitterUploadID int    `json:"transmitter_upload_id,omitempty"`
	Preselection        string `json:"preselection,omitempty"`

	// Transmitter attributes.
	MAC          string `json:"mac,omitempty"`
	SerialNumber string `json:"serialnumber,omitempty"`

	// Channel attributes.
	Channel    *int `json:"channel,omitempty"`
	SensorType *int `json:"sensortype,omitempty"`

	// Machine attributes.
	Brand string `json:"brand,omitempty"`
	Power *int   `json:"power,omitempty"`
}

// LoadStagedRecords reads a staging file (a JSON array of staged records).
func LoadStagedRecords(path string) ([]StagedRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read staging file: %w", err)
	}
	var records []StagedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse staging file %s: %w", path, err)
	}
	return records, nil
}
