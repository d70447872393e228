// Package taskselect picks the monitoring task template matching a
// measurement point's signal kind and machine rotation speed.
package taskselect

import "iseesync/internal/models"

var vibBySpeed = map[Bucket]*models.Task{
	BucketVeryLow: &vib300hz1600,
	BucketLow:     &vib600hz1600,
	BucketLowMid:  &vib1200hz3200,
	BucketMid:     &vib3000hz6400,
	BucketHighMid: &vib5000hz6400,
	BucketHigh:    &vib10000hz6400,
}

// The dna catalog has no dedicated high-speed preset; everything above
// 1000 RPM reuses the default 2000Hz template.
var dnaBySpeed = map[Bucket]*models.Task{
	BucketVeryLow: &dna125hz1600,
	BucketLow:     &dna250hz1600,
	BucketLowMid:  &dna500hz1600,
	BucketMid:     &dna1000hz3200,
	BucketHighMid: &dna2000hz3200,
	BucketHigh:    &dna2000hz3200,
}

// Select returns a copy of the task template for the given signal and
// rotation speed, or nil when no template applies. A nil speed selects the
// signal's default template; temperature ignores speed entirely.
func Select(signal Signal, speed *int) *models.Task {
	if speed == nil {
		switch signal {
		case SignalVibration:
			return vib3000hz6400.Clone()
		case SignalDNA:
			return dna2000hz3200.Clone()
		}
	}

	if signal == SignalTemperature {
		return temperatureOnly.Clone()
	}

	if speed == nil {
		return nil
	}

	bucket := BucketFor(*speed)
	if bucket == BucketNone {
		return nil
	}

	var template *models.Task
	switch signal {
	case SignalVibration:
		template = vibBySpeed[bucket]
	case SignalDNA:
		template = dnaBySpeed[bucket]
	}
	if template == nil {
		return nil
	}
	return template.Clone()
}

// SignalFor derives the signal kind from a staged record's flags.
// Temperature wins over DNA when both are set.
func SignalFor(dna, tempOnly bool) Signal {
	switch {
	case tempOnly:
		return SignalTemperature
	case dna:
		return SignalDNA
	default:
		return SignalVibration
	}
}
