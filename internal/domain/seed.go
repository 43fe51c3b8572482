package domain

// SeedDayKeys are the day buckets present on first run.
var SeedDayKeys = []string{"saturday", "sunday"}

// SeedTemplates returns the first-run template catalog. Each call returns a
// fresh slice so callers may mutate it.
func SeedTemplates() []ActivityTemplate {
	return []ActivityTemplate{
		{ID: "a1", Activity: Activity{Title: "Brunch", Category: "Food", EstimatedDuration: "1.5h", Vibe: "Relaxed"}},
		{ID: "a2", Activity: Activity{Title: "Hiking", Category: "Outdoors", EstimatedDuration: "3h", Vibe: "Energetic"}},
		{ID: "a3", Activity: Activity{Title: "Movie Night", Category: "Entertainment", EstimatedDuration: "2.5h", Vibe: "Chill"}},
		{ID: "a4", Activity: Activity{Title: "Reading", Category: "Solo", EstimatedDuration: "1h", Vibe: "Calm"}},
		{ID: "a5", Activity: Activity{Title: "Coffee Run", Category: "Food", EstimatedDuration: "0.5h", Vibe: "Happy"}},
	}
}

// SeedSchedule returns the first-run schedule: one empty bucket per seed day.
func SeedSchedule() Schedule {
	return NewSchedule(SeedDayKeys...)
}
