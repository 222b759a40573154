package landcover

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apigeo/carbone-cli/internal/plan"
)

func TestBuildWherePostgres(t *testing.T) {
	tests := []struct {
		name      string
		filter    plan.Filter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "empty filter",
			filter:    plan.Filter{},
			wantWhere: "",
			wantArgs:  nil,
		},
		{
			name:      "single location",
			filter:    plan.Filter{Locations: []string{"TENE"}},
			wantWhere: " WHERE o.forest_code IN ($1)",
			wantArgs:  []any{"TENE"},
		},
		{
			name: "all dimensions",
			filter: plan.Filter{
				Locations:  []string{"TENE", "DOKA"},
				CoverTypes: []string{"FORET_DENSE"},
				Years:      []int{1986, 2023},
			},
			wantWhere: " WHERE o.forest_code IN ($1, $2) AND o.cover_code IN ($3) AND o.year IN ($4, $5)",
			wantArgs:  []any{"TENE", "DOKA", "FORET_DENSE", 1986, 2023},
		},
		{
			name: "area threshold",
			filter: plan.Filter{
				Years:     []int{2023},
				Threshold: &plan.Threshold{Field: plan.FieldArea, Op: "gte", Value: 100},
			},
			wantWhere: " WHERE o.year IN ($1) AND o.area_ha >= $2",
			wantArgs:  []any{2023, 100.0},
		},
		{
			name: "carbon threshold lte",
			filter: plan.Filter{
				Threshold: &plan.Threshold{Field: plan.FieldCarbon, Op: "lte", Value: 2500.5},
			},
			wantWhere: " WHERE o.carbon_t <= $1",
			wantArgs:  []any{2500.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildWhere(tt.filter, pgPlaceholder)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildWhereSQLitePlaceholders(t *testing.T) {
	where, args := buildWhere(plan.Filter{
		Locations: []string{"SANGOUE"},
		Years:     []int{2003, 2023},
	}, sqlitePlaceholder)

	assert.Equal(t, " WHERE o.forest_code IN (?) AND o.year IN (?, ?)", where)
	assert.Equal(t, []any{"SANGOUE", 2003, 2023}, args)
}

// The generated SQL must never embed entity values, whatever they contain.
func TestBuildWhereNeverEmbedsValues(t *testing.T) {
	hostile := "TENE'; DROP TABLE occupations; --"
	where, args := buildWhere(plan.Filter{Locations: []string{hostile}}, pgPlaceholder)

	assert.Equal(t, " WHERE o.forest_code IN ($1)", where)
	assert.Equal(t, []any{hostile}, args)
	assert.NotContains(t, where, "DROP")
}
