package taskselect

import "iseesync/internal/models"

// Task templates mirror the acquisition presets provisioned on the server.
// DtStart is left zero; callers stamp it when creating a task. The presid
// values reference server-side preselections and are remapped per customer
// database before use.

func vibStats(fmin, fmax int) map[string][]models.Statistic {
	return map[string][]models.Statistic{
		"vibration": {
			{GlobalType: "acceleration", FMin: models.IntPtr(fmin), FMax: models.IntPtr(fmax)},
			{GlobalType: "velocity", FMin: models.IntPtr(fmin), FMax: models.IntPtr(fmax)},
			{GlobalType: "peak-peak"},
		},
	}
}

func dnaStats() map[string][]models.Statistic {
	noise := 0.03
	return map[string][]models.Statistic{
		"dna": {
			{GlobalType: "dna500", NoiseFactor: models.FloatPtr(noise)},
			{GlobalType: "dna12", NoiseFactor: models.FloatPtr(noise)},
			{GlobalType: "ave12", NoiseFactor: models.FloatPtr(noise)},
			{GlobalType: "stickslip"},
		},
	}
}

var dailyRule = models.TaskRule{Freq: "3", Interval: 1}

var vib300hz1600 = models.Task{
	PresName:   "Next Gen vib (< 320RPM) 300Hz / 1600 lines",
	PresID:     "653fb075c716f23c7ecb26ee",
	Rule:       dailyRule,
	Params:     []any{"acquire", 3200, 634, 1, 3000, 30, 15, 0, 1, 2, 1},
	Statistics: vibStats(2, 300),
	Conditions: []any{},
}

var vib600hz1600 = models.Task{
	PresName:   "Next Gen vib (320-640RPM) 600Hz / 1600 lines",
	PresID:     "653fb04bc716f23c7ecb26ec",
	Rule:       dailyRule,
	Params:     []any{"acquire", 3200, 1333, 1, 3000, 30, 15, 0, 2, 2, 1},
	Statistics: vibStats(2, 600),
	Conditions: []any{},
}

var vib1200hz3200 = models.Task{
	PresName:   "Next Gen vib (640-1280RPM) 1200Hz / 3200 lines",
	PresID:     "653faff4c716f23c7ecb26ea",
	Rule:       dailyRule,
	Params:     []any{"acquire", 6400, 2000, 2, 40, 30, 15, 0, 1, 2, 1},
	Statistics: vibStats(2, 1200),
	Conditions: []any{},
}

var vib3000hz6400 = models.Task{
	PresName:   "Next Gen vib Default (1280-3600RPM) 3000Hz / 6400 lines",
	PresID:     "653fafc3c716f23c7ecb26e8",
	Rule:       dailyRule,
	Params:     []any{"acquire", 12800, 6666, 1, 3000, 30, 15, 0, 1, 2, 1},
	Statistics: vibStats(10, 3000),
	Conditions: []any{},
}

var vib5000hz6400 = models.Task{
	PresName:   "Next Gen vib (>3600RPM) 5000Hz / 6400 lines",
	PresID:     "653faf8dc716f23c7ecb26e6",
	Rule:       dailyRule,
	Params:     []any{"acquire", 12800, 11111, 1, 3000, 30, 15, 0, 1, 2, 1},
	Statistics: vibStats(10, 5000),
	Conditions: []any{},
}

var vib10000hz6400 = models.Task{
	PresName:   "Next Gen vib High Frq Meas 10000Hz / 6400 lines",
	PresID:     "653fb0f7c716f23c7ecb26f1",
	Rule:       dailyRule,
	Params:     []any{"acquire", 12800, 22222, 1, 40, 30, 15, 0, 3, 2, 1},
	Statistics: vibStats(10, 10000),
	Conditions: []any{},
}

var dna125hz1600 = models.Task{
	PresName:   "Next Gen I-dna (80-160RPM) 125Hz / 1600 lines",
	PresID:     "653faee1c716f23c7ecb26e2",
	Rule:       dailyRule,
	Params:     []any{"acquire_dna", 3200, 160000, 64, 3000, 0, 0, 0, 1, 0, 32},
	Statistics: dnaStats(),
	Conditions: []any{},
}

var dna250hz1600 = models.Task{
	PresName:   "Next Gen I-dna (160-320RPM) 250Hz / 1600 lines",
	PresID:     "653faecac716f23c7ecb26e0",
	Rule:       dailyRule,
	Params:     []any{"acquire_dna", 3200, 160000, 32, 3000, 0, 0, 0, 1, 0, 32},
	Statistics: dnaStats(),
	Conditions: []any{},
}

var dna500hz1600 = models.Task{
	PresName:   "Next Gen I-dna (320-640RPM) 500Hz /1600 lines",
	PresID:     "653fae9ec716f23c7ecb26de",
	Rule:       dailyRule,
	Params:     []any{"acquire_dna", 3200, 160000, 16, 3000, 0, 0, 0, 1, 0, 32},
	Statistics: dnaStats(),
	Conditions: []any{},
}

var dna1000hz3200 = models.Task{
	PresName:   "Next Gen I-dna (640-1280RPM) 1000Hz / 3200 lines",
	PresID:     "653fae33c716f23c7ecb26dc",
	Rule:       dailyRule,
	Params:     []any{"acquire_dna", 6400, 160000, 8, 3000, 0, 0, 0, 1, 0, 32},
	Statistics: dnaStats(),
	Conditions: []any{},
}

var dna2000hz3200 = models.Task{
	PresName:   "Next Gen I-DNA Default (>1280RPM) 2000Hz / 3200 lines",
	PresID:     "653fadddc716f23c7ecb26d9",
	Rule:       dailyRule,
	Params:     []any{"acquire_dna", 6400, 160000, 4, 3000, 0, 0, 0, 1, 0, 32},
	Statistics: dnaStats(),
	Conditions: []any{},
}

var temperatureOnly = models.Task{
	PresName: "Next Gen EXTERNAL TEMPERATURE ONLY",
	PresID:   "6576e3adb3c379dcb3bf985b",
	Rule:     models.TaskRule{Freq: "3", Interval: 12},
	Params:   []any{"acquire", 1, 6666, 1, 3000, 30, 15, 0, 3, 2, 4},
	Statistics: map[string][]models.Statistic{
		"temperature": {
			{GlobalType: "temperature"},
		},
	},
	Conditions: []any{},
}
