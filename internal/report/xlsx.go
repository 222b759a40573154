// Package report renders export bundles to XLSX workbooks.
package report

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/apigeo/carbone-cli/internal/engine"
)

// WriteXLSX writes the bundle to path as a two-sheet workbook: one sheet
// of per-cover statistics, one sheet of area totals.
func WriteXLSX(bundle *engine.ExportBundle, path string) error {
	f := xlsx.NewFile()

	if err := writeStatsSheet(f, bundle); err != nil {
		return err
	}
	if err := writeAreaSheet(f, bundle); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func writeStatsSheet(f *xlsx.File, bundle *engine.ExportBundle) error {
	sheet, err := f.AddSheet("Statistiques")
	if err != nil {
		return eris.Wrap(err, "report: add stats sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Code", "Type d'occupation", "Superficie (ha)", "Carbone (t)", "Part (%)", "Observations"} {
		header.AddCell().SetString(h)
	}

	for _, r := range bundle.Stats {
		row := sheet.AddRow()
		row.AddCell().SetString(r.CoverCode)
		row.AddCell().SetString(r.LabelFR)
		row.AddCell().SetFloat(r.AreaHa)
		row.AddCell().SetFloat(r.CarbonT)
		row.AddCell().SetFloat(r.PercentArea)
		row.AddCell().SetInt(r.Count)
	}
	return nil
}

func writeAreaSheet(f *xlsx.File, bundle *engine.ExportBundle) error {
	sheet, err := f.AddSheet("Superficies")
	if err != nil {
		return eris.Wrap(err, "report: add area sheet")
	}

	rows := [][2]string{
		{"Superficie observée (ha)", fmt.Sprintf("%.2f", bundle.Area.TotalAreaHa)},
		{"Superficie classée (ha)", fmt.Sprintf("%.2f", bundle.Area.LegalAreaHa)},
		{"Part de la superficie classée (%)", fmt.Sprintf("%.2f", bundle.Area.PercentOfLegal)},
	}
	for _, kv := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}

	if len(bundle.Area.Years) > 0 {
		row := sheet.AddRow()
		row.AddCell().SetString("Années")
		row.AddCell().SetString(joinYears(bundle.Area.Years))
	}
	return nil
}

func joinYears(years []int) string {
	out := ""
	for i, y := range years {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d", y)
	}
	return out
}
