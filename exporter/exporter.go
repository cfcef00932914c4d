// Package exporter retrieves remote declarative definitions and serializes
// them as artifacts, one file per resource coordinate.
package exporter

import (
	"github.com/crmarques/cortexops/warehouse"
)

// StatusFunc receives human-readable progress lines. The CLI points it at
// stderr so stdout stays machine-usable.
type StatusFunc func(format string, args ...any)

type Exporter struct {
	querier     warehouse.Querier
	toolVersion string
	statusf     StatusFunc
}

func New(querier warehouse.Querier, toolVersion string, statusf StatusFunc) *Exporter {
	if statusf == nil {
		statusf = func(string, ...any) {}
	}
	return &Exporter{
		querier:     querier,
		toolVersion: toolVersion,
		statusf:     statusf,
	}
}

// Tally is the outcome of a bulk operation. Per-item failures never abort
// the batch; they are counted and reported here.
type Tally struct {
	Total     int
	Succeeded int
	Failed    int
}
