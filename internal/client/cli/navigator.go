package cli

import "sync"

// StackNavigator is a path-stack implementation of flow.Navigator. Replace
// swaps the top entry so the replaced screen is not reachable via "back".
// Changes are signalled on a coalescing channel so screen loops can block
// on navigation caused by other goroutines (the gate's timer, subscribers).
type StackNavigator struct {
	mu      sync.Mutex
	stack   []string
	changed chan struct{}
}

func NewStackNavigator(initial string) *StackNavigator {
	return &StackNavigator{
		stack:   []string{initial},
		changed: make(chan struct{}, 1),
	}
}

func (n *StackNavigator) Navigate(path string, replace bool) {
	n.mu.Lock()
	if replace && len(n.stack) > 0 {
		n.stack[len(n.stack)-1] = path
	} else {
		n.stack = append(n.stack, path)
	}
	n.mu.Unlock()
	n.signal()
}

// Back pops the current entry. Returns false when already at the root.
func (n *StackNavigator) Back() bool {
	n.mu.Lock()
	if len(n.stack) <= 1 {
		n.mu.Unlock()
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	n.mu.Unlock()
	n.signal()
	return true
}

// Current returns the visible path.
func (n *StackNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stack[len(n.stack)-1]
}

// Changed returns a channel that receives after any navigation. Signals
// coalesce; receivers must re-read Current.
func (n *StackNavigator) Changed() <-chan struct{} {
	return n.changed
}

func (n *StackNavigator) signal() {
	select {
	case n.changed <- struct{}{}:
	default:
	}
}
