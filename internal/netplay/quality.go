package netplay

import "time"

// Quality grades the connection by round-trip latency.
type Quality string

const (
	QualityExcellent    Quality = "excellent"
	QualityGood         Quality = "good"
	QualityFair         Quality = "fair"
	QualityPoor         Quality = "poor"
	QualityDisconnected Quality = "disconnected"
)

// ConnectionQuality grades a connection. Without a latency sample it is
// reported as disconnected.
func ConnectionQuality(state ConnState, latency time.Duration, measured bool) Quality {
	if state != StateConnected || !measured {
		return QualityDisconnected
	}
	switch {
	case latency < 100*time.Millisecond:
		return QualityExcellent
	case latency < 200*time.Millisecond:
		return QualityGood
	case latency < 400*time.Millisecond:
		return QualityFair
	}
	return QualityPoor
}
