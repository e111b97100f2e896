package r3d

// cuboidFaces lists corner signs (x, y, z) of each face, counter-clockwise
// when seen from outside: front, back, top, bottom, right, left.
var cuboidFaces = [6][4][3]float32{
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},
	{{-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}, {1, -1, -1}},
	{{-1, 1, -1}, {-1, 1, 1}, {1, 1, 1}, {1, 1, -1}},
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}},
	{{1, -1, -1}, {1, 1, -1}, {1, 1, 1}, {1, -1, 1}},
	{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}},
}

// cuboidGeometry builds 4 vertices per face (not shared, so each face can
// carry its own color), 3 color bytes per vertex and 2 triangles per face.
func cuboidGeometry(o CuboidOptions) (positions []float32, colors []uint8, indices []uint16) {
	half := [3]float32{o.Width / 2, o.Height / 2, o.Depth / 2}

	positions = make([]float32, 0, cuboidVertexCount*3)
	colors = make([]uint8, 0, cuboidVertexCount*3)
	indices = make([]uint16, 0, cuboidIndexCount)

	for f, face := range cuboidFaces {
		for _, corner := range face {
			for axis := 0; axis < 3; axis++ {
				positions = append(positions, o.Position[axis]+corner[axis]*half[axis])
			}
			colors = append(colors, o.Color[0], o.Color[1], o.Color[2])
		}
		base := uint16(f * 4)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return positions, colors, indices
}
