package routing

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// KeywordConfidence is reported when a keyword rule matched
	KeywordConfidence = 0.9
	// CategoryConfidence is reported for category based fallback routing
	CategoryConfidence = 0.7
)

// Input is the report text the router looks at
type Input struct {
	Title       string
	Description string
	Location    string
	Category    string
}

// Result is a routing decision
type Result struct {
	DepartmentID string  `json:"departmentId"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

// Resolver answers whether a department id exists
type Resolver interface {
	Has(id string) bool
}

// Router is safe for concurrent use; it holds no mutable state
type Router struct {
	table Table
}

// lowerPool hands out casers, a cases.Caser must not be shared between goroutines
var lowerPool = sync.Pool{
	New: func() any { c := cases.Lower(language.Und); return &c },
}

// New validates that every department the table names is known to deps
func New(t Table, deps Resolver) (*Router, error) {
	t = t.normalized()
	if t.Fallback == "" {
		return nil, fmt.Errorf("routing: table has no fallback department")
	}
	for _, id := range t.departments() {
		if !deps.Has(id) {
			return nil, fmt.Errorf("routing: unknown department %q", id)
		}
	}
	return &Router{table: t}, nil
}

// Table returns a copy of the table the router evaluates
func (r *Router) Table() Table { return r.table.normalized() }

// Classify routes in to a department. It never fails
func (r *Router) Classify(in Input) Result {
	text := lower(in.Title + " " + in.Description + " " + in.Location)

	for _, rule := range r.table.Rules {
		var matched []string
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			return Result{
				DepartmentID: rule.DepartmentID,
				Confidence:   KeywordConfidence,
				Reason:       "Matched keywords: " + strings.Join(matched, ", "),
			}
		}
	}

	dep, ok := r.table.Categories[in.Category]
	if !ok {
		dep = r.table.Fallback
	}
	return Result{
		DepartmentID: dep,
		Confidence:   CategoryConfidence,
		Reason:       "Category-based routing: " + in.Category,
	}
}

func lower(s string) string {
	c := lowerPool.Get().(*cases.Caser)
	out := c.String(s)
	lowerPool.Put(c)
	return out
}
