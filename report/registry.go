package report

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"xdao.co/charsniff/runner"
)

// Renderer writes a run summary in one output format.
//
// Renderers typically register themselves in init():
//
//	report.MustRegister(report.Renderer{ ... })
type Renderer struct {
	Name        string
	Description string
	Render      func(w io.Writer, sum runner.Summary) error
}

var (
	mu        sync.RWMutex
	renderers = map[string]Renderer{}
)

// Register registers a renderer.
func Register(r Renderer) error {
	if r.Name == "" {
		return fmt.Errorf("report: renderer name is required")
	}
	if r.Render == nil {
		return fmt.Errorf("report: renderer %q missing Render", r.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if _, exists := renderers[r.Name]; exists {
		return fmt.Errorf("report: renderer %q already registered", r.Name)
	}
	renderers[r.Name] = r
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister(r Renderer) {
	if err := Register(r); err != nil {
		panic(err)
	}
}

// Lookup returns the named renderer.
func Lookup(name string) (Renderer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := renderers[name]
	return r, ok
}

// List returns all renderers sorted by name.
func List() []Renderer {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Renderer, 0, len(renderers))
	for _, r := range renderers {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns renderer names, sorted.
func Names() []string {
	rs := List()
	n := make([]string, 0, len(rs))
	for _, r := range rs {
		n = append(n, r.Name)
	}
	return n
}

// Write renders sum to w in the named format.
func Write(w io.Writer, format string, sum runner.Summary) error {
	r, ok := Lookup(format)
	if !ok {
		return fmt.Errorf("unknown report format %q", format)
	}
	return r.Render(w, sum)
}
