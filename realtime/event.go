package realtime

import (
	"sort"
)

// TriggerWithMeta adds sequencing metadata for deterministic ordering.
type TriggerWithMeta[T comparable] struct {
	Trigger     T
	SequenceNum uint64
	Priority    int
}

// sortTriggers orders a batch deterministically.
func sortTriggers[T comparable](batch []TriggerWithMeta[T]) {
	// Stable sort preserves insertion order for equal priorities
	sort.SliceStable(batch, func(i, j int) bool {
		// Primary: Higher priority first
		if batch[i].Priority != batch[j].Priority {
			return batch[i].Priority > batch[j].Priority
		}
		// Secondary: Earlier sequence number first (FIFO)
		return batch[i].SequenceNum < batch[j].SequenceNum
	})
}
