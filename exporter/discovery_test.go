package exporter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/crmarques/cortexops/warehouse"
)

func TestListAgentsSkipsFailingScopes(t *testing.T) {
	t.Parallel()

	querier := &fakeQuerier{
		user: "alice",
		execErr: func(statement string) error {
			if statement == "USE DATABASE LOCKED" {
				return errors.New("not authorized")
			}
			return nil
		},
		respond: func(statement string) ([]warehouse.Row, error) {
			switch {
			case statement == "SHOW DATABASES":
				return nameRows("OPEN", "LOCKED"), nil
			case statement == "SHOW SCHEMAS":
				return nameRows("PUBLIC", "RESTRICTED"), nil
			case strings.HasPrefix(statement, "SHOW AGENTS IN SCHEMA OPEN.RESTRICTED"):
				return nil, errors.New("not authorized")
			case strings.HasPrefix(statement, "SHOW AGENTS IN SCHEMA OPEN.PUBLIC"):
				return []warehouse.Row{showAgentRow("OPEN", "PUBLIC", "visible")}, nil
			}
			return nil, nil
		},
	}

	exp := New(querier, "0.3.0", nil)
	coords, err := exp.ListAgents(context.Background())
	if err != nil {
		t.Fatalf("traversal must tolerate scope failures: %v", err)
	}

	if len(coords) != 1 || coords[0].Name != "visible" {
		t.Fatalf("expected only the reachable agent, got %v", coords)
	}
}

func TestListAgentsFailsWhenDatabasesUnlistable(t *testing.T) {
	t.Parallel()

	querier := &fakeQuerier{
		respond: func(statement string) ([]warehouse.Row, error) {
			return nil, errors.New("session expired")
		},
	}

	exp := New(querier, "0.3.0", nil)
	if _, err := exp.ListAgents(context.Background()); err == nil {
		t.Fatalf("the root enumeration failing is a real discovery failure")
	}
}

func TestListSemanticViewsFiltersSemanticRows(t *testing.T) {
	t.Parallel()

	querier := &fakeQuerier{
		respond: func(statement string) ([]warehouse.Row, error) {
			switch {
			case statement == "SHOW DATABASES":
				return nameRows("MYDB"), nil
			case statement == "SHOW SCHEMAS":
				return nameRows("PUBLIC"), nil
			case strings.HasPrefix(statement, "SHOW VIEWS IN SCHEMA"):
				return []warehouse.Row{
					{{Name: "name", Value: "plain_view"}, {Name: "is_semantic", Value: "N"}},
					{{Name: "name", Value: "sales_model"}, {Name: "is_semantic", Value: "Y"}},
					{{Name: "name", Value: "ops_model"}, {Name: "kind", Value: "SEMANTIC"}},
				}, nil
			}
			return nil, nil
		},
	}

	exp := New(querier, "0.3.0", nil)
	coords, err := exp.ListSemanticViews(context.Background(), "", "")
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}

	if len(coords) != 2 {
		t.Fatalf("expected the two semantic views, got %v", coords)
	}
	if coords[0].Name != "sales_model" || coords[1].Name != "ops_model" {
		t.Fatalf("traversal order must be preserved, got %v", coords)
	}
}

func TestListSemanticViewsNarrowsTraversalByFilter(t *testing.T) {
	t.Parallel()

	querier := &fakeQuerier{
		respond: func(statement string) ([]warehouse.Row, error) {
			if strings.HasPrefix(statement, "SHOW VIEWS IN SCHEMA MYDB.ANALYTICS") {
				return []warehouse.Row{
					{{Name: "name", Value: "model"}, {Name: "is_semantic", Value: "Y"}},
				}, nil
			}
			return nil, nil
		},
	}

	exp := New(querier, "0.3.0", nil)
	coords, err := exp.ListSemanticViews(context.Background(), "MYDB", "ANALYTICS")
	if err != nil {
		t.Fatalf("discovery failed: %v", err)
	}

	if len(coords) != 1 || coords[0].Database != "MYDB" || coords[0].Schema != "ANALYTICS" {
		t.Fatalf("filters must scope the traversal, got %v", coords)
	}
	for _, statement := range querier.statements {
		if statement == "SHOW DATABASES" {
			t.Fatalf("database enumeration must be skipped when a filter is set")
		}
	}
}
