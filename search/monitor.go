package search

import "github.com/poiesic/heritage/core"

// ResolveMonitor provides hooks to observe a resolution.
// Implement this interface to trace which stages ran and what each produced.
type ResolveMonitor interface {
	Start(query string)
	AfterEmbedding(model string, ok bool)
	AfterVectorSearch(refs []core.ArtifactRef)
	AfterPayloadFilter(refs []core.ArtifactRef)
	AfterLocalMatch(refs []core.ArtifactRef)
	Finish(outcome core.Outcome)
}

// noopMonitor is a no-op implementation of ResolveMonitor
type noopMonitor struct{}

var _ ResolveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                         {}
func (n *noopMonitor) AfterEmbedding(_ string, _ bool)        {}
func (n *noopMonitor) AfterVectorSearch(_ []core.ArtifactRef)  {}
func (n *noopMonitor) AfterPayloadFilter(_ []core.ArtifactRef) {}
func (n *noopMonitor) AfterLocalMatch(_ []core.ArtifactRef)    {}
func (n *noopMonitor) Finish(_ core.Outcome)                   {}
