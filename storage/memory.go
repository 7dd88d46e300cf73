package storage

import (
	"sync"
)

const maxRecords = 500

// MemoryStorage keeps the latest maxRecords generations
type MemoryStorage struct {
	records []Generation
	mutex   sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		records: make([]Generation, 0, maxRecords),
	}
}

func (m *MemoryStorage) SaveGeneration(generation *Generation) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if len(m.records) == maxRecords {
		copy(m.records, m.records[1:])
		m.records = m.records[:maxRecords-1]
	}
	m.records = append(m.records, *generation)
	return nil
}

func (m *MemoryStorage) RecentGenerations(limit int) ([]Generation, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if limit <= 0 || limit > len(m.records) {
		limit = len(m.records)
	}
	result := make([]Generation, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.records[i])
	}
	return result, nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
