package ingest

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/encoding/ewkb"
)

func TestEncodePolygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts:  1,
		NumPoints: 5,
		Parts:     []int32{0},
		Points: []shp.Point{
			{X: -5.5, Y: 6.2},
			{X: -5.4, Y: 6.2},
			{X: -5.4, Y: 6.3},
			{X: -5.5, Y: 6.3},
			{X: -5.5, Y: 6.2},
		},
	}

	data, err := encodePolygon(poly)
	require.NoError(t, err)
	require.NotNil(t, data)

	g, err := ewkb.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, 4326, g.SRID())
}

func TestEncodePolygonMultipart(t *testing.T) {
	poly := &shp.Polygon{
		NumParts:  2,
		NumPoints: 8,
		Parts:     []int32{0, 4},
		Points: []shp.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 0},
			{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}, {X: 5, Y: 5},
		},
	}

	data, err := encodePolygon(poly)
	require.NoError(t, err)
	require.NotNil(t, data)
}

func TestEncodePolygonEmpty(t *testing.T) {
	data, err := encodePolygon(&shp.Polygon{})
	require.NoError(t, err)
	assert.Nil(t, data)

	data, err = encodePolygon(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}
