package engine

import "sort"

// SenderCount pairs a sender address with its document count.
type SenderCount struct {
	Sender string
	Count  int
}

// Statistics describes the engine's current corpus and index state.
type Statistics struct {
	Initialized        bool
	Degraded           bool
	ModelName          string
	DocumentCount      int
	IndexSize          int
	FolderDistribution map[string]int
	TopSenders         []SenderCount
}

// Statistics returns corpus and index statistics, including the folder
// distribution and the ten most frequent senders.
func (e *Engine) Statistics() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := Statistics{
		Initialized:   e.index != nil,
		Degraded:      e.degraded,
		ModelName:     e.modelName,
		DocumentCount: len(e.docs),
	}
	if e.index != nil {
		stats.IndexSize = e.index.len()
	}

	if len(e.docs) == 0 {
		return stats
	}

	folders := make(map[string]int)
	senders := make(map[string]int)
	for i := range e.docs {
		folder := e.docs[i].Folder
		if folder == "" {
			folder = "Unknown"
		}
		sender := e.docs[i].Sender
		if sender == "" {
			sender = "Unknown"
		}
		folders[folder]++
		senders[sender]++
	}
	stats.FolderDistribution = folders

	top := make([]SenderCount, 0, len(senders))
	for sender, count := range senders {
		top = append(top, SenderCount{Sender: sender, Count: count})
	}
	sort.Slice(top, func(a, b int) bool {
		if top[a].Count != top[b].Count {
			return top[a].Count > top[b].Count
		}
		return top[a].Sender < top[b].Sender
	})
	if len(top) > 10 {
		top = top[:10]
	}
	stats.TopSenders = top

	return stats
}
