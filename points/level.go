package points

// PointsPerLevel is the fixed width of every level bucket.
const PointsPerLevel = 500

// LevelResult describes where a point total sits in the level progression.
type LevelResult struct {
	Level              int `json:"level"`
	CurrentLevelPoints int `json:"current_level_points"`
	NextLevelPoints    int `json:"next_level_points"`
	ProgressPercent    int `json:"progress_percent"`
}

// LevelProgress derives the 1-based level and progress toward the next one
// from a cumulative point total. Levels are uniform 500-point buckets, so a
// fresh account (0 points) is level 1 at 0% and the level increments exactly
// at each multiple of 500.
func LevelProgress(totalPoints int) LevelResult {
	if totalPoints < 0 {
		totalPoints = 0
	}
	into := totalPoints % PointsPerLevel
	return LevelResult{
		Level:              totalPoints/PointsPerLevel + 1,
		CurrentLevelPoints: into,
		NextLevelPoints:    PointsPerLevel,
		ProgressPercent:    into * 100 / PointsPerLevel,
	}
}
