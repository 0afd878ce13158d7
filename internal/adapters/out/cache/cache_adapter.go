package cache

import (
	"context"
	"sync"
	"time"

	"github.com/clinicdesk/schedule-aggregator/internal/config"
	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
	"github.com/clinicdesk/schedule-aggregator/internal/core/ports/out"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

type weekReportKey struct {
	DoctorID uuid.UUID
	Week     domain.WeekKey
}

type WeekReportCacheEntry struct {
	Report   domain.WeekReport
	StoredAt time.Time
}

type rulesCacheEntry struct {
	Rules     []domain.AvailabilityRule
	Timestamp time.Time
}

type CacheAdapter struct {
	reports  *lru.Cache[weekReportKey, *WeekReportCacheEntry]
	rules    *lru.Cache[uuid.UUID, *rulesCacheEntry]
	rulesTtl time.Duration
	mu       sync.RWMutex
	logger   out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruReports, err := lru.New[weekReportKey, *WeekReportCacheEntry](cfg.Cache.ReportsSize)
	if err != nil {
		logger.Error("cache.reports.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.ReportsSize,
		})
		return nil, err
	}

	lruRules, err := lru.New[uuid.UUID, *rulesCacheEntry](cfg.Cache.RulesSize)
	if err != nil {
		logger.Error("cache.rules.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.RulesSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		reports:  lruReports,
		rules:    lruRules,
		rulesTtl: time.Duration(cfg.Cache.RulesTtlMinutes) * time.Minute,
		logger:   logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *CacheAdapter) GetWeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey) (*domain.WeekReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.reports.Get(weekReportKey{DoctorID: doctorID, Week: week})
	if !exists {
		c.logger.Debug("cache.reports.get.miss", out.LogFields{
			"doctorId": doctorID,
			"week":     week,
		})
		return nil, false
	}

	c.logger.Debug("cache.reports.get.hit", out.LogFields{
		"doctorId":          doctorID,
		"week":              week,
		"appointmentsCount": len(entry.Report.Appointments),
	})

	report := entry.Report
	return &report, true
}

func (c *CacheAdapter) StoreWeekReport(ctx context.Context, doctorID uuid.UUID, report domain.WeekReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.reports.store", out.LogFields{
		"doctorId":          doctorID,
		"week":              report.Week,
		"appointmentsCount": len(report.Appointments),
	})

	entry := &WeekReportCacheEntry{
		Report:   report,
		StoredAt: time.Now(),
	}

	c.reports.Add(weekReportKey{DoctorID: doctorID, Week: report.Week}, entry)
}

func (c *CacheAdapter) InvalidateWeekReport(ctx context.Context, doctorID uuid.UUID, week domain.WeekKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports.Remove(weekReportKey{DoctorID: doctorID, Week: week})
}

func (c *CacheAdapter) InvalidateDoctorReports(ctx context.Context, doctorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, key := range c.reports.Keys() {
		if key.DoctorID == doctorID {
			c.reports.Remove(key)
			removed++
		}
	}

	c.logger.Debug("cache.reports.invalidate_doctor", out.LogFields{
		"doctorId": doctorID,
		"removed":  removed,
	})
}

// Кэширование правил доступности

func (c *CacheAdapter) GetAvailabilityRules(ctx context.Context, doctorID uuid.UUID) ([]domain.AvailabilityRule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.rules.Get(doctorID)
	if !exists {
		return nil, false
	}

	// Правила живут с TTL: расписание врача меняется редко,
	// но протухший кэш держать не хотим
	if time.Since(entry.Timestamp) > c.rulesTtl {
		return nil, false
	}

	return entry.Rules, true
}

func (c *CacheAdapter) StoreAvailabilityRules(ctx context.Context, doctorID uuid.UUID, rules []domain.AvailabilityRule) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rules.Add(doctorID, &rulesCacheEntry{
		Rules:     rules,
		Timestamp: time.Now(),
	})
}

func (c *CacheAdapter) InvalidateAvailabilityRules(ctx context.Context, doctorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rules.Remove(doctorID)
}
