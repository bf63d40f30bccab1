package assetcache

import (
	"github.com/spaolacci/murmur3"
	"github.com/vkngwrapper/substrate/handle"
)

// TextureData is the cache's record of a loaded texture
type TextureData struct {
	Resource ResourceID
	Width    uint32
	Height   uint32
	PathHash uint32
	RefCount uint32
}

// MeshData is the cache's record of a loaded or generated mesh. Generated meshes have a
// PathHash of 0.
type MeshData struct {
	VertexBuffer ResourceID
	IndexBuffer  ResourceID
	VertexCount  uint32
	IndexCount   uint32
	VertexStride uint32
	PathHash     uint32
	RefCount     uint32
}

// ShaderData is the cache's record of a loaded shader
type ShaderData struct {
	Resource ResourceID
	PathHash uint32
	RefCount uint32
}

// MaterialData pairs a texture and a shader with a base color. A material holds a reference
// to both for as long as it is loaded.
type MaterialData struct {
	Texture   handle.Texture
	Shader    handle.Shader
	BaseColor [4]float32
	RefCount  uint32
}

func (d *TextureData) refs() *uint32  { return &d.RefCount }
func (d *MeshData) refs() *uint32     { return &d.RefCount }
func (d *ShaderData) refs() *uint32   { return &d.RefCount }
func (d *MaterialData) refs() *uint32 { return &d.RefCount }

// PathHash returns the murmur3 hash recorded for assets loaded from path. murmur3.Sum32 fails
// checkptr validation under -race, so the streaming hasher is used instead.
func PathHash(path string) uint32 {
	hasher := murmur3.New32()
	_, _ = hasher.Write([]byte(path))
	return hasher.Sum32()
}
