package landcover

import (
	"fmt"
	"strings"

	"github.com/apigeo/carbone-cli/internal/plan"
)

// buildWhere renders a plan.Filter as a WHERE clause with positional
// placeholders. ph renders the n-th placeholder ("$3" for Postgres, "?"
// for SQLite). Entity values travel exclusively as bound arguments: the
// generated SQL text never embeds user input.
func buildWhere(f plan.Filter, ph func(n int) string) (string, []any) {
	var conds []string
	var args []any

	addIn := func(col string, values []any) {
		if len(values) == 0 {
			return
		}
		marks := make([]string, len(values))
		for i, v := range values {
			args = append(args, v)
			marks[i] = ph(len(args))
		}
		conds = append(conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(marks, ", ")))
	}

	addIn("o.forest_code", toAny(f.Locations))
	addIn("o.cover_code", toAny(f.CoverTypes))
	if len(f.Years) > 0 {
		vals := make([]any, len(f.Years))
		for i, y := range f.Years {
			vals[i] = y
		}
		addIn("o.year", vals)
	}

	if t := f.Threshold; t != nil {
		col := "o.area_ha"
		if t.Field == plan.FieldCarbon {
			col = "o.carbon_t"
		}
		op := ">="
		if t.Op == "lte" {
			op = "<="
		}
		args = append(args, t.Value)
		conds = append(conds, fmt.Sprintf("%s %s %s", col, op, ph(len(args))))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func pgPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func sqlitePlaceholder(int) string { return "?" }
