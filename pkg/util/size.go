package util

// SizeMB converts a byte count to MiB rounded to two decimals, the unit
// every user-facing response uses.
func SizeMB(size int64) float64 {
	mb := float64(size) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}
