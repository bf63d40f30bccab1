package assetcache

import (
	"context"
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/handle"
)

// MaxSphereSegments is the largest segment count CreateSphere accepts while keeping every
// vertex addressable by a 16-bit index
const MaxSphereSegments = 255

var quadIndices = [...]uint16{0, 1, 2, 2, 1, 3}

var cubeIndices = [...]uint16{
	0, 1, 2, 2, 3, 0,
	4, 5, 6, 6, 7, 4,
	8, 9, 10, 10, 11, 8,
	12, 13, 14, 14, 15, 12,
	16, 17, 18, 18, 19, 16,
	20, 21, 22, 22, 23, 20,
}

// generate fills vertex and index arrays inside a temp scope of the cache's arena, uploads them,
// and records the resulting mesh. The arrays are rolled back once the backend has consumed them.
func (c *Cache) generate(ctx context.Context, kind string, vertexCount, indexCount uint64, fill func(vertices []Vertex, indices []uint16)) handle.Mesh {
	var buffers MeshBuffers
	err := c.arena.Scope(func() error {
		vertices := arena.PushArrayNoZero[Vertex](c.arena, vertexCount)
		indices := arena.PushArrayNoZero[uint16](c.arena, indexCount)
		if vertices == nil || indices == nil {
			return errors.Newf("unable to allocate %d vertices and %d indices", vertexCount, indexCount)
		}

		fill(vertices, indices)

		var err error
		buffers, err = c.backend.UploadMesh(ctx, vertices, indices)
		return err
	})
	if err != nil {
		c.logLoadFailure(ctx, kind, "", err)
		return handle.InvalidMesh
	}

	buffers.VertexCount = uint32(vertexCount)
	buffers.IndexCount = uint32(indexCount)
	buffers.VertexStride = uint32(unsafe.Sizeof(Vertex{}))
	return c.addMesh(ctx, "", buffers)
}

// CreateQuad generates a width by height quad in the XY plane, centered on the origin
func (c *Cache) CreateQuad(ctx context.Context, width, height float32) handle.Mesh {
	if c == nil {
		return handle.InvalidMesh
	}

	halfW := width * 0.5
	halfH := height * 0.5

	return c.generate(ctx, "quad", 4, uint64(len(quadIndices)), func(vertices []Vertex, indices []uint16) {
		vertices[0] = Vertex{Position: [3]float32{-halfW, -halfH, 0}, UV: [2]float32{0, 1}}
		vertices[1] = Vertex{Position: [3]float32{halfW, -halfH, 0}, UV: [2]float32{1, 1}}
		vertices[2] = Vertex{Position: [3]float32{-halfW, halfH, 0}, UV: [2]float32{0, 0}}
		vertices[3] = Vertex{Position: [3]float32{halfW, halfH, 0}, UV: [2]float32{1, 0}}
		copy(indices, quadIndices[:])
	})
}

// CreateCube generates a cube with edges of length size, centered on the origin. Each face has
// its own four vertices so that faces can be textured independently.
func (c *Cache) CreateCube(ctx context.Context, size float32) handle.Mesh {
	if c == nil {
		return handle.InvalidMesh
	}

	s := size * 0.5
	faces := [6][4][3]float32{
		{{-s, -s, -s}, {-s, s, -s}, {s, s, -s}, {s, -s, -s}},
		{{s, -s, s}, {s, s, s}, {-s, s, s}, {-s, -s, s}},
		{{-s, -s, s}, {-s, s, s}, {-s, s, -s}, {-s, -s, -s}},
		{{s, -s, -s}, {s, s, -s}, {s, s, s}, {s, -s, s}},
		{{-s, -s, s}, {s, -s, s}, {s, -s, -s}, {-s, -s, -s}},
		{{-s, s, -s}, {s, s, -s}, {s, s, s}, {-s, s, s}},
	}
	sideUVs := [4][2]float32{{0, 1}, {0, 0}, {1, 0}, {1, 1}}
	capUVs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	return c.generate(ctx, "cube", 24, uint64(len(cubeIndices)), func(vertices []Vertex, indices []uint16) {
		for face := range faces {
			uvs := sideUVs
			if face >= 4 {
				uvs = capUVs
			}

			for corner := range faces[face] {
				vertices[face*4+corner] = Vertex{Position: faces[face][corner], UV: uvs[corner]}
			}
		}
		copy(indices, cubeIndices[:])
	})
}

// CreateSphere generates a UV sphere of the given radius with segments latitude bands and
// segments longitude bands. segments must be between 1 and MaxSphereSegments.
func (c *Cache) CreateSphere(ctx context.Context, radius float32, segments uint32) handle.Mesh {
	if c == nil || segments == 0 || segments > MaxSphereSegments {
		return handle.InvalidMesh
	}

	latitudes := segments
	longitudes := segments
	vertexCount := uint64(latitudes+1) * uint64(longitudes+1)
	indexCount := uint64(latitudes) * uint64(longitudes) * 6

	return c.generate(ctx, "sphere", vertexCount, indexCount, func(vertices []Vertex, indices []uint16) {
		v := 0
		for lat := uint32(0); lat <= latitudes; lat++ {
			theta := float64(lat) / float64(latitudes) * math.Pi
			sinTheta, cosTheta := math.Sincos(theta)

			for lon := uint32(0); lon <= longitudes; lon++ {
				phi := float64(lon) / float64(longitudes) * 2 * math.Pi
				sinPhi, cosPhi := math.Sincos(phi)

				vertices[v] = Vertex{
					Position: [3]float32{
						radius * float32(sinTheta*cosPhi),
						radius * float32(cosTheta),
						radius * float32(sinTheta*sinPhi),
					},
					UV: [2]float32{
						float32(lon) / float32(longitudes),
						float32(lat) / float32(latitudes),
					},
				}
				v++
			}
		}

		i := 0
		for lat := uint32(0); lat < latitudes; lat++ {
			for lon := uint32(0); lon < longitudes; lon++ {
				current := uint16(lat*(longitudes+1) + lon)
				next := current + uint16(longitudes) + 1

				indices[i+0] = current
				indices[i+1] = next
				indices[i+2] = current + 1
				indices[i+3] = current + 1
				indices[i+4] = next
				indices[i+5] = next + 1
				i += 6
			}
		}
	})
}
