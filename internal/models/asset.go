package models

import (
	"encoding/json"
	"strconv"
)

// AssetType is the numeric type code the iSee API uses for hierarchy nodes.
type AssetType int64

const (
	TypeFunctionalLocation AssetType = 16777216
	TypeCountry            AssetType = 16777217
	TypeMeasurementPoint   AssetType = 16777218
	TypeCorp               AssetType = 16777220
	TypeFactory            AssetType = 16777221
	TypeZone               AssetType = 16777222
	TypeAsset              AssetType = 33554432
	TypeGateway            AssetType = 33554433
	TypeRangeExtender      AssetType = 33554434
	TypeTransmitter        AssetType = 33554435
	TypeChannel            AssetType = 33554436
	TypeMachine            AssetType = 33554437
)

var assetTypeLabels = map[AssetType]string{
	TypeFunctionalLocation: "Functional location",
	TypeCountry:            "Country",
	TypeMeasurementPoint:   "MP",
	TypeCorp:               "Corp",
	TypeFactory:            "Factory",
	TypeZone:               "Zone",
	TypeAsset:              "Asset",
	TypeGateway:            "Gateway",
	TypeRangeExtender:      "Range extender",
	TypeTransmitter:        "Transmitter",
	TypeChannel:            "Sensor",
	TypeMachine:            "Machine",
}

// Label returns the human-readable name for the type code, or "" when the
// code is unknown.
func (t AssetType) Label() string {
	return assetTypeLabels[t]
}

// UnmarshalJSON accepts both the numeric and the quoted-string encodings the
// API emits for the "t" field.
func (t *AssetType) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return err
		}
		*t = AssetType(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = AssetType(n)
	return nil
}

// Asset is a node in the server-side monitoring hierarchy. Path is the list
// of ancestor ids in root-to-parent order; ETag is the concurrency token
// required for patch and delete.
type Asset struct {
	ID           string          `json:"_id,omitempty"`
	Name         string          `json:"name"`
	Type         AssetType       `json:"t"`
	Path         []string        `json:"path,omitempty"`
	ETag         string          `json:"_etag,omitempty"`
	Preselection string          `json:"preselection,omitempty"`
	Optionals    *AssetOptionals `json:"optionals,omitempty"`
	Perm         []string        `json:"perm,omitempty"`
	PermInh      []string        `json:"perm_inh,omitempty"`
}

// ParentID returns the immediate parent id, or "" for a root node.
func (a *Asset) ParentID() string {
	if len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

// AssetOptionals is the type-specific attribute bag. Only the fields relevant
// to the asset's type are set; everything is omitted from the wire when zero.
type AssetOptionals struct {
	Speed         *int     `json:"speed,omitempty"`
	Transmitter   string   `json:"transmitter,omitempty"`
	DNA           bool     `json:"dna,omitempty"`
	TempOnly      bool     `json:"temp_only,omitempty"`
	Criticality   *int     `json:"criticality,omitempty"`
	EquipmentType *int     `json:"equipment_type,omitempty"`
	Picture       string   `json:"picture,omitempty"`
	MAC           string   `json:"mac,omitempty"`
	SerialNumber  string   `json:"serialnumber,omitempty"`
	AppFirmware   string   `json:"appfirmware,omitempty"`
	Channel       *int     `json:"channel,omitempty"`
	SensorType    *int     `json:"sensortype,omitempty"`
	Ratio         *float64 `json:"ratio,omitempty"`
	Factor        *float64 `json:"factor,omitempty"`
	Offset        *float64 `json:"offset,omitempty"`
	Sensitivity   *float64 `json:"sensitivity,omitempty"`
	OldPath       []string `json:"oldpath,omitempty"`
}

// IntPtr is a convenience for filling optional numeric fields.
func IntPtr(v int) *int { return &v }

// FloatPtr is a convenience for filling optional float fields.
func FloatPtr(v float64) *float64 { return &v }
