package storage

import (
	"errors"
	"fmt"
	"log"

	"childguard/backend/internal/models"

	"gorm.io/gorm"
)

// Unit statistics counters are written with atomic increments only, both
// in PostgreSQL (GREATEST-floored expression) and in the Redis mirror used
// by the dashboards. Read-modify-write would lose updates under concurrent
// case creation and deletion.

const (
	CounterTotalCases  = "total_cases"
	CounterUrgentCases = "urgent_cases"
	CounterFalseCases  = "false_cases"
)

func unitStatsKey(unitID string) string {
	return "unit_stats:" + unitID
}

// CreateUnit inserts a new unit. Unit names are unique.
func (s *Service) CreateUnit(u *models.Unit) error {
	return s.DB.Create(u).Error
}

// SaveUnit persists the full unit state.
func (s *Service) SaveUnit(u *models.Unit) error {
	return s.DB.Save(u).Error
}

// GetUnitByID returns the unit, or nil when absent.
func (s *Service) GetUnitByID(id string) (*models.Unit, error) {
	var u models.Unit
	err := s.DB.First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUnits returns all active units.
func (s *Service) ListUnits() ([]models.Unit, error) {
	var units []models.Unit
	if err := s.DB.Where("is_active = ?", true).Order("name asc").Find(&units).Error; err != nil {
		log.Printf("ERROR: Failed to list units: %v", err)
		return nil, err
	}
	return units, nil
}

// IncrementUnitCounter atomically adjusts one statistics counter by delta,
// floored at zero. The Redis mirror is best-effort: a cache failure is
// logged, not surfaced, because PostgreSQL stays authoritative.
func (s *Service) IncrementUnitCounter(unitID, counter string, delta int) error {
	switch counter {
	case CounterTotalCases, CounterUrgentCases, CounterFalseCases:
	default:
		return fmt.Errorf("unknown unit counter %q", counter)
	}

	err := s.DB.Model(&models.Unit{}).
		Where("id = ?", unitID).
		UpdateColumn(counter, gorm.Expr("GREATEST("+counter+" + ?, 0)", delta)).Error
	if err != nil {
		return err
	}

	if s.Redis != nil {
		key := unitStatsKey(unitID)
		val, rerr := s.Redis.HIncrBy(s.Ctx, key, counter, int64(delta)).Result()
		if rerr != nil {
			log.Printf("WARN: Failed to update redis counter %s for unit %s: %v", counter, unitID, rerr)
		} else if val < 0 {
			if herr := s.Redis.HSet(s.Ctx, key, counter, 0).Err(); herr != nil {
				log.Printf("WARN: Failed to clamp redis counter %s for unit %s: %v", counter, unitID, herr)
			}
		}
	}
	return nil
}

// UnitStatistics returns the counter snapshot for one unit, preferring the
// Redis mirror and falling back to the persisted columns.
func (s *Service) UnitStatistics(unitID string) (map[string]int64, error) {
	if s.Redis != nil {
		vals, err := s.Redis.HGetAll(s.Ctx, unitStatsKey(unitID)).Result()
		if err == nil && len(vals) > 0 {
			stats := make(map[string]int64, len(vals))
			for k, v := range vals {
				var n int64
				if _, serr := fmt.Sscan(v, &n); serr == nil {
					stats[k] = n
				}
			}
			return stats, nil
		}
	}

	u, err := s.GetUnitByID(unitID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, nil
	}
	return map[string]int64{
		CounterTotalCases:  int64(u.TotalCases),
		CounterUrgentCases: int64(u.UrgentCases),
		CounterFalseCases:  int64(u.FalseCases),
	}, nil
}
