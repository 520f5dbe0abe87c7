package readability

// Difficulty labels stored on books
const (
	LevelEasy   = "Easy"
	LevelMedium = "Medium"
	LevelHard   = "Hard"
)

// DefaultPagesPerHour is the reading speed used when no override is given
const DefaultPagesPerHour = 60

// EstimateMinutes returns the estimated reading time in minutes for a book,
// rounding up to the next full minute. Returns 0 for non-positive page counts.
func EstimateMinutes(pageCount, pagesPerHour int) int {
	if pageCount <= 0 {
		return 0
	}
	if pagesPerHour <= 0 {
		pagesPerHour = DefaultPagesPerHour
	}
	totalMinutes := pageCount * 60
	minutes := totalMinutes / pagesPerHour
	if totalMinutes%pagesPerHour > 0 {
		minutes++
	}
	return minutes
}

// EstimateDifficulty returns an ease-of-reading label from page count
func EstimateDifficulty(pageCount int) string {
	if pageCount <= 150 {
		return LevelEasy
	}
	if pageCount <= 350 {
		return LevelMedium
	}
	return LevelHard
}

// IsValidLevel reports whether level is one of the known difficulty labels
func IsValidLevel(level string) bool {
	return level == LevelEasy || level == LevelMedium || level == LevelHard
}
