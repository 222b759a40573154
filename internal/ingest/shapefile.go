package ingest

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"go.uber.org/zap"
)

// Boundary is one forest polygon read from a shapefile.
type Boundary struct {
	Code     string
	Geometry []byte // EWKB, SRID 4326
}

// ReadBoundaries reads forest boundary polygons from a shapefile. The
// attribute named codeField (case-insensitive) supplies the forest code,
// which is matched against the registry upstream. Records without a
// polygon shape or a code are skipped.
func ReadBoundaries(shpPath, codeField string) ([]Boundary, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	codeIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, codeField) {
			codeIdx = i
			break
		}
	}
	if codeIdx < 0 {
		return nil, eris.Errorf("ingest: shapefile has no %q attribute", codeField)
	}

	var out []Boundary
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()

		code := strings.TrimSpace(strings.TrimRight(reader.Attribute(codeIdx), "\x00"))
		if code == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		wkb, err := encodePolygon(poly)
		if err != nil || wkb == nil {
			skipped++
			continue
		}

		out = append(out, Boundary{Code: strings.ToUpper(code), Geometry: wkb})
	}

	if skipped > 0 {
		zap.L().Debug("ingest: skipped shapefile records", zap.Int("skipped", skipped))
	}
	return out, nil
}

// encodePolygon converts a shapefile polygon to EWKB with SRID 4326.
// Returns nil, nil when every part is malformed.
func encodePolygon(p *shp.Polygon) ([]byte, error) {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil, nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("ingest: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("ingest: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil, nil
	}

	data, err := ewkb.Marshal(mp, ewkb.NDR)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: encode boundary")
	}
	return data, nil
}
