package assetcache

import "context"

// ResourceID identifies a resource owned by a Backend. The zero ResourceID refers to no resource.
type ResourceID uint64

// Vertex is the layout of vertices generated for procedural meshes
type Vertex struct {
	Position [3]float32
	UV       [2]float32
}

// TextureInfo describes a texture created by a Backend
type TextureInfo struct {
	Resource ResourceID
	Width    uint32
	Height   uint32
}

// MeshBuffers describes the GPU buffers of a mesh created by a Backend
type MeshBuffers struct {
	VertexBuffer ResourceID
	IndexBuffer  ResourceID
	VertexCount  uint32
	IndexCount   uint32
	VertexStride uint32
}

//go:generate mockgen -destination mocks/backend.go -package mocks . Backend

// Backend creates and destroys the resources that the cache tracks. It is usually implemented
// by a renderer's resource loader.
//
// UploadMesh receives vertex and index slices that are only valid for the duration of the call
// and must not be retained.
type Backend interface {
	LoadTexture(ctx context.Context, path string) (TextureInfo, error)
	LoadShader(ctx context.Context, path string) (ResourceID, error)
	LoadMesh(ctx context.Context, path string) (MeshBuffers, error)
	UploadMesh(ctx context.Context, vertices []Vertex, indices []uint16) (MeshBuffers, error)
	ReleaseResource(id ResourceID) error
}
