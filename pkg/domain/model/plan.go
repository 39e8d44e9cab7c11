package model

import "github.com/pollwiz/pollwiz/pkg/domain/types"

// PlanCatalog maps billing plan IDs to the monthly vote/poll allowance the
// plan grants.
type PlanCatalog map[types.PlanID]int

// DefaultPlanCatalog holds the built-in plans. A catalog loaded from
// configuration replaces it entirely.
var DefaultPlanCatalog = PlanCatalog{
	"free":      DefaultMaxCount,
	"starter":   100,
	"unlimited": 100000,
}

// MaxCount returns the allowance for the plan. Unknown plans fall back to
// the free-tier allowance to fail safely.
func (c PlanCatalog) MaxCount(id types.PlanID) int {
	if max, ok := c[id]; ok && max > 0 {
		return max
	}
	return DefaultMaxCount
}
