package services

import (
	"sync"

	"github.com/clinicdesk/schedule-aggregator/internal/core/domain"
)

type scheduleAggregatorDebug struct {
	mu   sync.Mutex
	data []domain.DebugInfo
}

func (d *scheduleAggregatorDebug) AddDebugInfo(info domain.DebugInfo) {
	d.mu.Lock()
	d.data = append(d.data, info)
	d.mu.Unlock()
}
