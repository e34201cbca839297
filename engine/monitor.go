package engine

import (
	"github.com/sembox/mailseek/classify"
	"github.com/sembox/mailseek/core"
)

// SearchMonitor provides hooks to observe the bidirectional search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterClassification(cl *classify.Classification)
	AfterSubSearch(label string, results []core.SearchResult)
	AfterMerge(unique int)
	AfterDirectionFilter(before, after int)
	Finish(results []core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                    {}
func (n *noopMonitor) AfterClassification(_ *classify.Classification)    {}
func (n *noopMonitor) AfterSubSearch(_ string, _ []core.SearchResult)    {}
func (n *noopMonitor) AfterMerge(_ int)                                  {}
func (n *noopMonitor) AfterDirectionFilter(_, _ int)                     {}
func (n *noopMonitor) Finish(_ []core.SearchResult)                      {}
