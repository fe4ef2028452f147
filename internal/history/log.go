package history

import (
	"sync"

	"signal_bot/internal/models"
)

// Log — append-only журнал сделок за время жизни процесса.
// Пишет только планировщик; mutex нужен из-за читателей в Telegram-горутине.
type Log struct {
	mu      sync.RWMutex
	records []models.TradeRecord
}

func NewLog() *Log {
	return &Log{}
}

func (l *Log) Append(rec models.TradeRecord) {
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()
}

// Recent — копия последних n записей в хронологическом порядке.
func (l *Log) Recent(n int) []models.TradeRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]models.TradeRecord, n)
	copy(out, l.records[len(l.records)-n:])
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
