package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"ambassador-program/internal/models"
	"ambassador-program/internal/monitoring"
)

type ClickService struct {
	db *gorm.DB
}

func NewClickService(db *gorm.DB) *ClickService {
	return &ClickService{db: db}
}

// trailing analytics window in days
const clickWindowDays = 30

// analyticsWindowStart returns the inclusive start of the trailing
// window: midnight of the oldest of the 30 days. The daily series and
// the UTM breakdowns share it so both views agree on edge-day clicks.
func analyticsWindowStart(now time.Time) time.Time {
	start := now.AddDate(0, 0, -(clickWindowDays - 1))
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}

// DailyClicks is one bucket of the trailing daily series.
type DailyClicks struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// SourceClicks is one row of the UTM breakdown.
type SourceClicks struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// RecordClick appends a click for the ambassador behind the code.
// Unknown or inactive codes are logged and ignored; the visitor's page
// load is never affected. Repeat clicks are not deduplicated.
func (s *ClickService) RecordClick(code, utmSource, utmMedium, landingPath string) error {
	var ambassador models.Ambassador
	err := s.db.Where("referral_code = ? AND is_active = ?", code, true).First(&ambassador).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Printf("Click ignored: no active ambassador for code %q", code)
			return nil
		}
		return err
	}

	click := models.Click{
		AmbassadorID: ambassador.ID,
		UTMSource:    utmSource,
		UTMMedium:    utmMedium,
		LandingPath:  landingPath,
	}
	if err := s.db.Create(&click).Error; err != nil {
		return err
	}

	monitoring.ClicksRecorded.Inc()
	return nil
}

// GetDailySeries returns exactly 30 buckets covering the trailing
// 30-day window, oldest first, with days without clicks reported as
// zero.
func (s *ClickService) GetDailySeries(ambassadorID uint) ([]DailyClicks, error) {
	dayStart := analyticsWindowStart(time.Now())

	var clicks []models.Click
	if err := s.db.Where("ambassador_id = ? AND created_at >= ?", ambassadorID, dayStart).
		Find(&clicks).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, clickWindowDays)
	for _, click := range clicks {
		counts[click.CreatedAt.Format("2006-01-02")]++
	}

	series := make([]DailyClicks, 0, clickWindowDays)
	for i := 0; i < clickWindowDays; i++ {
		day := dayStart.AddDate(0, 0, i).Format("2006-01-02")
		series = append(series, DailyClicks{Date: day, Count: counts[day]})
	}
	return series, nil
}

// GetSourceBreakdown returns the top-7 UTM sources by click count over
// the trailing window. Sources past the seventh are omitted entirely.
func (s *ClickService) GetSourceBreakdown(ambassadorID uint) ([]SourceClicks, error) {
	return s.breakdown(ambassadorID, "utm_source")
}

// GetMediumBreakdown returns the top-7 UTM mediums by click count over
// the trailing window.
func (s *ClickService) GetMediumBreakdown(ambassadorID uint) ([]SourceClicks, error) {
	return s.breakdown(ambassadorID, "utm_medium")
}

func (s *ClickService) breakdown(ambassadorID uint, column string) ([]SourceClicks, error) {
	windowStart := analyticsWindowStart(time.Now())

	var rows []SourceClicks
	err := s.db.Model(&models.Click{}).
		Select(column+" AS label, COUNT(*) AS count").
		Where("ambassador_id = ? AND created_at >= ?", ambassadorID, windowStart).
		Group(column).
		Order("count DESC").
		Limit(7).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetTotalClicks returns the all-time click count for an ambassador.
func (s *ClickService) GetTotalClicks(ambassadorID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Click{}).Where("ambassador_id = ?", ambassadorID).Count(&count).Error
	return count, err
}
