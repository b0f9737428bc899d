package points

import "testing"

func TestLevelProgress(t *testing.T) {
	cases := []struct {
		points   int
		level    int
		into     int
		percent  int
	}{
		{0, 1, 0, 0},
		{10, 1, 10, 2},
		{499, 1, 499, 99},
		{500, 2, 0, 0},   // level increments exactly at the boundary
		{501, 2, 1, 0},
		{750, 2, 250, 50},
		{1000, 3, 0, 0},
		{12345, 25, 345, 69},
	}
	for _, c := range cases {
		res := LevelProgress(c.points)
		if res.Level != c.level || res.CurrentLevelPoints != c.into || res.ProgressPercent != c.percent {
			t.Errorf("LevelProgress(%d) = %+v, want level=%d into=%d pct=%d",
				c.points, res, c.level, c.into, c.percent)
		}
		if res.NextLevelPoints != PointsPerLevel {
			t.Errorf("LevelProgress(%d).NextLevelPoints = %d, want %d", c.points, res.NextLevelPoints, PointsPerLevel)
		}
	}
}

func TestLevelProgressNegativeClamped(t *testing.T) {
	res := LevelProgress(-50)
	if res.Level != 1 || res.CurrentLevelPoints != 0 {
		t.Fatalf("LevelProgress(-50) = %+v, want level 1 at 0", res)
	}
}
