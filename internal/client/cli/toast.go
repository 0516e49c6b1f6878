package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/finapp/internal/client/flow"
)

// Toaster prints flow notifications to a writer. Destructive variants get a
// "!!" marker so failures stand out in a plain terminal.
type Toaster struct {
	mu sync.Mutex
	w  io.Writer
}

func NewToaster(w io.Writer) *Toaster {
	return &Toaster{w: w}
}

func (t *Toaster) Notify(n flow.Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	marker := "--"
	if n.Variant == flow.VariantDestructive {
		marker = "!!"
	}
	fmt.Fprintf(t.w, "%s %s: %s\n", marker, n.Title, n.Description)
}
