package views

import "sync"

// Lifecycle tracks whether a view is mounted. Each mount starts a new
// generation; results of calls started in an older generation are dropped.
type Lifecycle struct {
	mu         sync.Mutex
	generation uint64
	mounted    bool
}

func (l *Lifecycle) mount() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.generation++
	l.mounted = true
	return l.generation
}

// Unmount marks the view as gone. In-flight calls finish but their
// results are discarded.
func (l *Lifecycle) Unmount() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mounted = false
}

// Mounted reports whether the view is currently mounted
func (l *Lifecycle) Mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted
}

func (l *Lifecycle) current() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.generation
}

func (l *Lifecycle) alive(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mounted && l.generation == gen
}
