package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar follows a batch of settles, such as a sweep over the
// selector values of a plexer. Each item is begun, then either settles or
// fails.
type ProgressBar struct {
	lock sync.Mutex

	id        string
	name      string
	startTime time.Time
	total     uint64
	running   uint64
	settled   uint64
	failed    uint64
}

type progressRsp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Running   uint64    `json:"running"`
	Settled   uint64    `json:"settled"`
	Failed    uint64    `json:"failed"`
}

// ID returns the identifier the bar is listed with.
func (b *ProgressBar) ID() string {
	return b.id
}

// Begin marks one more item as being settled.
func (b *ProgressBar) Begin() {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.running++
}

// Finish ends an item begun with Begin. A nil err counts it as settled.
func (b *ProgressBar) Finish(err error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.running--
	if err != nil {
		b.failed++
		return
	}

	b.settled++
}

func (b *ProgressBar) snapshot() progressRsp {
	b.lock.Lock()
	defer b.lock.Unlock()

	return progressRsp{
		ID:        b.id,
		Name:      b.name,
		StartTime: b.startTime,
		Total:     b.total,
		Running:   b.running,
		Settled:   b.settled,
		Failed:    b.failed,
	}
}
