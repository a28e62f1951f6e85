package fv

import "sync"

// projectLocks serializes snapshot creation per project. Without this, the
// global latest-demote step of one snapshot could interleave with the tree
// walk of another and leave the latest flag inconsistent across paths.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*sync.Mutex)}
}

// get returns the mutex for a project, creating it on first use. Lock
// entries are never removed; the set of active projects per process is
// small.
func (p *projectLocks) get(projectID string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[projectID] = l
	}
	return l
}
