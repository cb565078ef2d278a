package organizer

import (
	"sort"
	"time"

	"github.com/dricdias/telegram-bot/internal/model"
)

// CategoryCount is a category name with its file count.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarizes the library for the dashboard views.
type Stats struct {
	TotalCategories      int             `json:"total_categories"`
	TotalFiles           int             `json:"total_files"`
	LargestCategory      string          `json:"largest_category,omitempty"`
	LargestCategoryCount int             `json:"largest_category_count,omitempty"`
	NewestCategory       string          `json:"newest_category,omitempty"`
	NewestCategoryAt     *time.Time      `json:"newest_category_at,omitempty"`
	PerCategory          []CategoryCount `json:"per_category"`
}

// Stats computes the dashboard summary.
func (s *Service) Stats() (*Stats, error) {
	cats, err := s.ListCategories()
	if err != nil {
		return nil, err
	}

	stats := &Stats{TotalCategories: len(cats)}

	var newestAt time.Time
	for _, cat := range cats {
		var count int64
		if err := s.DB.Model(&model.StoredFile{}).
			Where("category_id = ?", cat.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}

		stats.TotalFiles += int(count)
		stats.PerCategory = append(stats.PerCategory, CategoryCount{Name: cat.Name, Count: int(count)})

		if int(count) > stats.LargestCategoryCount {
			stats.LargestCategory = cat.Name
			stats.LargestCategoryCount = int(count)
		}
		if cat.CreatedAt.After(newestAt) {
			newestAt = cat.CreatedAt
			stats.NewestCategory = cat.Name
			at := cat.CreatedAt
			stats.NewestCategoryAt = &at
		}
	}

	return stats, nil
}

// DayCount is a cumulative file count on a given day.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// CategorySeries is the growth of one category over time.
type CategorySeries struct {
	Name   string     `json:"name"`
	Points []DayCount `json:"points"`
}

// GrowthSeries builds, per category, the cumulative file count by creation day.
// Categories without files are skipped.
func (s *Service) GrowthSeries() ([]CategorySeries, error) {
	cats, err := s.ListCategories()
	if err != nil {
		return nil, err
	}

	var series []CategorySeries
	for _, cat := range cats {
		var files []model.StoredFile
		if err := s.DB.Where("category_id = ?", cat.ID).
			Order("created_at").
			Find(&files).Error; err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}

		byDay := make(map[time.Time]int)
		for _, f := range files {
			day := f.CreatedAt.Truncate(24 * time.Hour)
			byDay[day]++
		}

		days := make([]time.Time, 0, len(byDay))
		for day := range byDay {
			days = append(days, day)
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

		cs := CategorySeries{Name: cat.Name}
		total := 0
		for _, day := range days {
			total += byDay[day]
			cs.Points = append(cs.Points, DayCount{Date: day, Count: total})
		}
		series = append(series, cs)
	}

	return series, nil
}
