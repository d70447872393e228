package models

// Statistic describes one computed statistic of a monitoring task.
type Statistic struct {
	GlobalType  string   `json:"global_type"`
	FMin        *int     `json:"fmin,omitempty"`
	FMax        *int     `json:"fmax,omitempty"`
	NoiseFactor *float64 `json:"noise_factor,omitempty"`
}

// TaskRule is the recurrence rule of a task. Freq is the API's frequency
// enum sent as a string ("1" minutely through "5" monthly); DtStart is a
// Unix timestamp in milliseconds.
type TaskRule struct {
	DtStart  int64  `json:"dtstart"`
	Freq     string `json:"freq"`
	Interval int    `json:"interval"`
}

// Task is a concrete monitoring job bound to one measurement point.
// Params is the acquisition parameter vector the API expects verbatim
// (mode string followed by numeric settings), so it stays heterogeneous.
type Task struct {
	ID         string                 `json:"_id,omitempty"`
	ETag       string                 `json:"_etag,omitempty"`
	PresName   string                 `json:"presname"`
	PresID     string                 `json:"presid"`
	Asset      string                 `json:"asset"`
	Rule       TaskRule               `json:"rule"`
	Params     []any                  `json:"params"`
	Statistics map[string][]Statistic `json:"statistics"`
	Conditions []any                  `json:"conditions"`
	Tach       bool                   `json:"tach"`
}

// Clone returns a deep copy safe to stamp with an asset id and start time.
// Statistic pointer fields are copied too, so mutating a clone never reaches
// the template it came from.
func (t *Task) Clone() *Task {
	clone := *t
	clone.Params = append([]any(nil), t.Params...)
	clone.Conditions = append([]any(nil), t.Conditions...)
	clone.Statistics = make(map[string][]Statistic, len(t.Statistics))
	for family, stats := range t.Statistics {
		copied := make([]Statistic, len(stats))
		for i, stat := range stats {
			copied[i] = stat.clone()
		}
		clone.Statistics[family] = copied
	}
	return &clone
}

func (s Statistic) clone() Statistic {
	out := s
	if s.FMin != nil {
		v := *s.FMin
		out.FMin = &v
	}
	if s.FMax != nil {
		v := *s.FMax
		out.FMax = &v
	}
	if s.NoiseFactor != nil {
		v := *s.NoiseFactor
		out.NoiseFactor = &v
	}
	return out
}

// Preselection is an immutable acquisition template stored server-side.
type Preselection struct {
	ID         string `json:"_id"`
	ETag       string `json:"_etag,omitempty"`
	Name       string `json:"name"`
	Parameters []any  `json:"parameters"`
	PresID     string `json:"presid,omitempty"`
	DNA        bool   `json:"dna"`
	Tach       bool   `json:"tach"`
	W30        bool   `json:"w30,omitempty"`
}
