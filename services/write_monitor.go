package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/paradise-cafe/utils"
)

// WriteMetrics counts collection replaces issued by this process.
type WriteMetrics struct {
	TotalWrites      int64            `json:"totalWrites"`
	SuccessfulWrites int64            `json:"successfulWrites"`
	FailedWrites     int64            `json:"failedWrites"`
	LastFailure      *WriteFailure    `json:"lastFailure,omitempty"`
	PerCollection    map[string]int64 `json:"perCollection"`
}

type WriteFailure struct {
	Collection string    `json:"collection"`
	Error      string    `json:"error"`
	At         time.Time `json:"at"`
}

// WriteMonitor records the outcome of every editor write. Failed writes are otherwise only
// logged, so this is how an operator sees them.
type WriteMonitor struct {
	mutex   sync.Mutex
	metrics WriteMetrics
	now     func() time.Time
}

func NewWriteMonitor() *WriteMonitor {
	return &WriteMonitor{
		metrics: WriteMetrics{PerCollection: map[string]int64{}},
		now:     time.Now,
	}
}

// Record is safe to call on a nil monitor.
func (wm *WriteMonitor) Record(collection string, err error) {
	if wm == nil {
		return
	}

	wm.mutex.Lock()
	defer wm.mutex.Unlock()

	wm.metrics.TotalWrites++
	wm.metrics.PerCollection[collection]++
	if err != nil {
		wm.metrics.FailedWrites++
		wm.metrics.LastFailure = &WriteFailure{Collection: collection, Error: err.Error(), At: wm.now()}
		utils.Collection(collection).Warnf("write failed (%d failures so far)", wm.metrics.FailedWrites)
		return
	}
	wm.metrics.SuccessfulWrites++
}

// GetMetrics returns a copy of the current counters.
func (wm *WriteMonitor) GetMetrics() WriteMetrics {
	wm.mutex.Lock()
	defer wm.mutex.Unlock()

	out := wm.metrics
	out.PerCollection = make(map[string]int64, len(wm.metrics.PerCollection))
	for k, v := range wm.metrics.PerCollection {
		out.PerCollection[k] = v
	}
	if wm.metrics.LastFailure != nil {
		f := *wm.metrics.LastFailure
		out.LastFailure = &f
	}
	return out
}
