package taskselect

// Signal is the kind of measurement a task acquires.
type Signal string

const (
	SignalVibration   Signal = "vib"
	SignalDNA         Signal = "dna"
	SignalTemperature Signal = "temp"
)

// Bucket is a named rotation speed range in RPM.
type Bucket string

const (
	BucketVeryLow Bucket = "very_low" // 1-80
	BucketLow     Bucket = "low"      // 81-160
	BucketLowMid  Bucket = "low_mid"  // 161-320
	BucketMid     Bucket = "mid"      // 321-640
	BucketHighMid Bucket = "high_mid" // 641-1000
	BucketHigh    Bucket = "high"     // 1001 and up
	BucketNone    Bucket = ""
)

// BucketFor maps a rotation speed to its bucket. Zero and negative speeds
// fall outside every range.
func BucketFor(speed int) Bucket {
	switch {
	case speed < 1:
		return BucketNone
	case speed <= 80:
		return BucketVeryLow
	case speed <= 160:
		return BucketLow
	case speed <= 320:
		return BucketLowMid
	case speed <= 640:
		return BucketMid
	case speed <= 1000:
		return BucketHighMid
	default:
		return BucketHigh
	}
}
