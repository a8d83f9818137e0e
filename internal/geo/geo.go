package geo

import (
	"errors"

	"github.com/dinorampage/combat/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ARENA POINTS
// The arena is a local Cartesian frame with Y up. Stored points put the ground
// plane in XY (world X, world Z) and the height in Z, so spatial queries on the
// stored geometry work on the ground plane the agents move on.
// Geometry data is stored in the WKB format.

// ErrEmptyPoint is returned when converting a point with no coordinates
var ErrEmptyPoint = errors.New("point has no coordinates")

// PointFromVec3 converts a world position into a 3D point and returns its height
// separately for the elevation column.
func PointFromVec3(v core.Vec3) (point geom.Point, elev float64) {
	point = geom.NewPoint(
		geom.Coordinates{
			XY:   geom.XY{X: v.X, Y: v.Z},
			Z:    v.Y,
			Type: geom.CoordinatesType(geom.DimXYZ),
		},
	)
	return point, v.Y
}

// Vec3FromPoint is the inverse of PointFromVec3. 2D points come back at height 0.
func Vec3FromPoint(point geom.Point) (core.Vec3, error) {
	coords, ok := point.Coordinates()
	if !ok {
		return core.Vec3{}, ErrEmptyPoint
	}
	v := core.Vec3{X: coords.X, Z: coords.Y}
	if coords.Type.Is3D() {
		v.Y = coords.Z
	}
	return v, nil
}
