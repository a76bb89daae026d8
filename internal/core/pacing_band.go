package core

// PacingBand classifies a pacing deviation (progress minus ideal, in points).
type PacingBand string

const (
	BandHighPace PacingBand = "high_pace"
	BandOnTrack  PacingBand = "on_track"
	BandCaution  PacingBand = "caution"
	BandAtRisk   PacingBand = "at_risk"
)

// PacingBandWidth is the width, in percentage points, of the on-track and
// caution bands around the ideal pace.
const PacingBandWidth = 10.0

// ClassifyPacing maps diff to its band: >+10 high pace, [0,+10] on track,
// [-10,0) caution, <-10 at risk.
func ClassifyPacing(diff float64) PacingBand {
	switch {
	case diff > PacingBandWidth:
		return BandHighPace
	case diff >= 0:
		return BandOnTrack
	case diff >= -PacingBandWidth:
		return BandCaution
	default:
		return BandAtRisk
	}
}

func (b PacingBand) Label() string {
	switch b {
	case BandHighPace:
		return "High pace"
	case BandOnTrack:
		return "On track"
	case BandCaution:
		return "Caution"
	case BandAtRisk:
		return "At risk"
	default:
		return "Unknown"
	}
}
