// Package ingest loads reference and observation data from external
// files: land-cover measurement CSVs and forest boundary shapefiles.
package ingest

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/apigeo/carbone-cli/internal/landcover"
)

// expected CSV layout: forest_code,cover_code,year,area_ha
const occupationColumns = 4

// ReadOccupations parses a measurement CSV into observations. The first
// row is treated as a header when its year column is not numeric. Carbon
// stock is derived from the area and the nomenclature's carbon factor.
// Rows with unknown forest or cover codes fail the whole read: a typo in
// an import file should be fixed, not silently dropped.
func ReadOccupations(r io.Reader) ([]landcover.Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	forests := knownForestCodes()
	covers := knownCoverCodes()

	var obs []landcover.Observation
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read csv row")
		}
		line++

		if len(record) < occupationColumns {
			return nil, eris.Errorf("ingest: line %d: expected %d columns, got %d",
				line, occupationColumns, len(record))
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}

		year, err := strconv.Atoi(record[2])
		if err != nil {
			if line == 1 {
				// header row
				continue
			}
			return nil, eris.Wrapf(err, "ingest: line %d: bad year %q", line, record[2])
		}

		forestCode := strings.ToUpper(record[0])
		coverCode := strings.ToUpper(record[1])
		if !forests[forestCode] {
			return nil, eris.Errorf("ingest: line %d: unknown forest code %q", line, record[0])
		}
		if !covers[coverCode] {
			return nil, eris.Errorf("ingest: line %d: unknown cover code %q", line, record[1])
		}

		area, err := parseArea(record[3])
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: line %d: bad area %q", line, record[3])
		}

		obs = append(obs, landcover.Observation{
			ForestCode: forestCode,
			CoverCode:  coverCode,
			Year:       year,
			AreaHa:     area,
			CarbonT:    area * landcover.CarbonFactor(coverCode),
		})
	}

	zap.L().Info("ingest: parsed occupation csv", zap.Int("rows", len(obs)))
	return obs, nil
}

// parseArea accepts both decimal separators; field files use commas.
func parseArea(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

func knownForestCodes() map[string]bool {
	m := make(map[string]bool, len(landcover.Forests))
	for _, f := range landcover.Forests {
		m[f.Code] = true
	}
	return m
}

func knownCoverCodes() map[string]bool {
	m := make(map[string]bool, len(landcover.Nomenclature))
	for _, ct := range landcover.Nomenclature {
		m[ct.Code] = true
	}
	return m
}
