// Package assetcache deduplicates and reference counts the textures, meshes, shaders, and
// materials loaded through a Backend. Records are stored in arena-backed slot maps and referred
// to by typed handles.
package assetcache

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/substrate/arena"
	"github.com/vkngwrapper/substrate/handle"
	"golang.org/x/exp/slog"
)

// initialCapacity is the starting number of records per asset kind
const initialCapacity uint32 = 256

var (
	// ErrNilArena is returned from New when no arena is provided
	ErrNilArena = errors.New("assetcache: arena must not be nil")
	// ErrNilBackend is returned from New when no backend is provided
	ErrNilBackend = errors.New("assetcache: backend must not be nil")
)

// Cache tracks the assets loaded through a Backend. Loading the same path more than once
// returns the same handle and takes another reference; the backend resource is released when
// the last reference is unloaded.
//
// Pointers returned by the Texture, Mesh, Shader, and Material getters are leases that remain
// valid only until the next load, create, or unload of the same kind of asset.
//
// Cache is not safe for concurrent use. All methods may be called on a nil *Cache.
type Cache struct {
	logger  *slog.Logger
	arena   *arena.Arena
	backend Backend

	textures  *pool[TextureData, *TextureData]
	meshes    *pool[MeshData, *MeshData]
	shaders   *pool[ShaderData, *ShaderData]
	materials *pool[MaterialData, *MaterialData]
}

// New creates an asset cache whose records are pushed from a. The arena must outlive the cache
// and must not be rolled back past the point where the cache was created.
func New(logger *slog.Logger, a *arena.Arena, backend Backend) (*Cache, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard))
	}
	if a == nil {
		return nil, ErrNilArena
	}
	if backend == nil {
		return nil, ErrNilBackend
	}

	textures, err := newPool[TextureData](logger, a, "texture")
	if err != nil {
		return nil, err
	}
	meshes, err := newPool[MeshData](logger, a, "mesh")
	if err != nil {
		return nil, err
	}
	shaders, err := newPool[ShaderData](logger, a, "shader")
	if err != nil {
		return nil, err
	}
	materials, err := newPool[MaterialData](logger, a, "material")
	if err != nil {
		return nil, err
	}

	return &Cache{
		logger:    logger,
		arena:     a,
		backend:   backend,
		textures:  textures,
		meshes:    meshes,
		shaders:   shaders,
		materials: materials,
	}, nil
}

func (c *Cache) releaseResource(id ResourceID, kind string) {
	if id == 0 {
		return
	}

	err := c.backend.ReleaseResource(id)
	if err != nil {
		c.logger.LogAttrs(context.Background(), slog.LevelError, "failed to release resource",
			slog.String("kind", kind), slog.Uint64("resource", uint64(id)), slog.Any("error", err))
	}
}

func (c *Cache) logLoadFailure(ctx context.Context, kind, path string, err error) {
	c.logger.LogAttrs(ctx, slog.LevelError, "failed to load asset",
		slog.String("kind", kind), slog.String("path", path), slog.Any("error", err))
}

// LoadTexture returns a handle to the texture at path, loading it through the backend if it is
// not already cached. It returns handle.InvalidTexture if the texture could not be loaded.
func (c *Cache) LoadTexture(ctx context.Context, path string) handle.Texture {
	if c == nil {
		return handle.InvalidTexture
	}

	if h, ok := c.textures.acquire(path); ok {
		return handle.Texture{ID: h}
	}

	info, err := c.backend.LoadTexture(ctx, path)
	if err != nil {
		c.logLoadFailure(ctx, "texture", path, err)
		return handle.InvalidTexture
	}

	h := c.textures.add(path, TextureData{
		Resource: info.Resource,
		Width:    info.Width,
		Height:   info.Height,
		PathHash: PathHash(path),
	})
	if !h.IsValid() {
		c.logLoadFailure(ctx, "texture", path, errors.New("texture records are full"))
		c.releaseResource(info.Resource, "texture")
		return handle.InvalidTexture
	}

	return handle.Texture{ID: h}
}

// Texture returns the record h refers to, or nil if h is not loaded
func (c *Cache) Texture(h handle.Texture) *TextureData {
	if c == nil {
		return nil
	}
	return c.textures.get(h.ID)
}

// UnloadTexture drops a reference to the texture h refers to, releasing it when the last
// reference is dropped
func (c *Cache) UnloadTexture(h handle.Texture) {
	if c == nil {
		return
	}

	record, removed := c.textures.release(h.ID)
	if removed {
		c.releaseResource(record.Resource, "texture")
	}
}

// LoadMesh returns a handle to the mesh at path, loading it through the backend if it is not
// already cached. It returns handle.InvalidMesh if the mesh could not be loaded.
func (c *Cache) LoadMesh(ctx context.Context, path string) handle.Mesh {
	if c == nil {
		return handle.InvalidMesh
	}

	if h, ok := c.meshes.acquire(path); ok {
		return handle.Mesh{ID: h}
	}

	buffers, err := c.backend.LoadMesh(ctx, path)
	if err != nil {
		c.logLoadFailure(ctx, "mesh", path, err)
		return handle.InvalidMesh
	}

	return c.addMesh(ctx, path, buffers)
}

func (c *Cache) addMesh(ctx context.Context, path string, buffers MeshBuffers) handle.Mesh {
	record := MeshData{
		VertexBuffer: buffers.VertexBuffer,
		IndexBuffer:  buffers.IndexBuffer,
		VertexCount:  buffers.VertexCount,
		IndexCount:   buffers.IndexCount,
		VertexStride: buffers.VertexStride,
	}
	if path != "" {
		record.PathHash = PathHash(path)
	}

	h := c.meshes.add(path, record)
	if !h.IsValid() {
		c.logLoadFailure(ctx, "mesh", path, errors.New("mesh records are full"))
		c.releaseMeshBuffers(&record)
		return handle.InvalidMesh
	}

	return handle.Mesh{ID: h}
}

func (c *Cache) releaseMeshBuffers(record *MeshData) {
	c.releaseResource(record.VertexBuffer, "mesh")
	c.releaseResource(record.IndexBuffer, "mesh")
}

// Mesh returns the record h refers to, or nil if h is not loaded
func (c *Cache) Mesh(h handle.Mesh) *MeshData {
	if c == nil {
		return nil
	}
	return c.meshes.get(h.ID)
}

// UnloadMesh drops a reference to the mesh h refers to, releasing its buffers when the last
// reference is dropped
func (c *Cache) UnloadMesh(h handle.Mesh) {
	if c == nil {
		return
	}

	record, removed := c.meshes.release(h.ID)
	if removed {
		c.releaseMeshBuffers(&record)
	}
}

// LoadShader returns a handle to the shader at path, loading it through the backend if it is
// not already cached. It returns handle.InvalidShader if the shader could not be loaded.
func (c *Cache) LoadShader(ctx context.Context, path string) handle.Shader {
	if c == nil {
		return handle.InvalidShader
	}

	if h, ok := c.shaders.acquire(path); ok {
		return handle.Shader{ID: h}
	}

	resource, err := c.backend.LoadShader(ctx, path)
	if err != nil {
		c.logLoadFailure(ctx, "shader", path, err)
		return handle.InvalidShader
	}

	h := c.shaders.add(path, ShaderData{
		Resource: resource,
		PathHash: PathHash(path),
	})
	if !h.IsValid() {
		c.logLoadFailure(ctx, "shader", path, errors.New("shader records are full"))
		c.releaseResource(resource, "shader")
		return handle.InvalidShader
	}

	return handle.Shader{ID: h}
}

// Shader returns the record h refers to, or nil if h is not loaded
func (c *Cache) Shader(h handle.Shader) *ShaderData {
	if c == nil {
		return nil
	}
	return c.shaders.get(h.ID)
}

// UnloadShader drops a reference to the shader h refers to, releasing it when the last
// reference is dropped
func (c *Cache) UnloadShader(h handle.Shader) {
	if c == nil {
		return
	}

	record, removed := c.shaders.release(h.ID)
	if removed {
		c.releaseResource(record.Resource, "shader")
	}
}

// CreateMaterial creates a material from a texture, a shader, and a base color. Either handle
// may be invalid to leave that part of the material empty, but a valid handle must be loaded.
// The material takes a reference on the texture and the shader until it is unloaded.
func (c *Cache) CreateMaterial(texture handle.Texture, shader handle.Shader, baseColor [4]float32) handle.Material {
	if c == nil {
		return handle.InvalidMaterial
	}

	if texture.IsValid() && c.textures.get(texture.ID) == nil {
		return handle.InvalidMaterial
	}
	if shader.IsValid() && c.shaders.get(shader.ID) == nil {
		return handle.InvalidMaterial
	}

	h := c.materials.add("", MaterialData{
		Texture:   texture,
		Shader:    shader,
		BaseColor: baseColor,
	})
	if !h.IsValid() {
		c.logger.LogAttrs(context.Background(), slog.LevelError, "failed to create material",
			slog.String("texture", texture.String()), slog.String("shader", shader.String()))
		return handle.InvalidMaterial
	}

	if texture.IsValid() {
		c.textures.retain(texture.ID)
	}
	if shader.IsValid() {
		c.shaders.retain(shader.ID)
	}

	return handle.Material{ID: h}
}

// Material returns the record h refers to, or nil if h is not loaded
func (c *Cache) Material(h handle.Material) *MaterialData {
	if c == nil {
		return nil
	}
	return c.materials.get(h.ID)
}

// RetainMaterial takes another reference to the material h refers to. It returns false if h
// is not loaded.
func (c *Cache) RetainMaterial(h handle.Material) bool {
	if c == nil {
		return false
	}
	return c.materials.retain(h.ID)
}

// UnloadMaterial drops a reference to the material h refers to. When the last reference is
// dropped, the material's references on its texture and shader are dropped as well.
func (c *Cache) UnloadMaterial(h handle.Material) {
	if c == nil {
		return
	}

	record, removed := c.materials.release(h.ID)
	if removed {
		c.UnloadTexture(record.Texture)
		c.UnloadShader(record.Shader)
	}
}

// Stats reports the number of loaded assets of each kind
type Stats struct {
	Textures  uint32
	Meshes    uint32
	Shaders   uint32
	Materials uint32
}

func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}

	return Stats{
		Textures:  c.textures.count(),
		Meshes:    c.meshes.count(),
		Shaders:   c.shaders.count(),
		Materials: c.materials.count(),
	}
}

// Shutdown releases every loaded resource through the backend regardless of reference counts
// and empties the cache. Handles issued before Shutdown are no longer valid afterward.
func (c *Cache) Shutdown() {
	if c == nil {
		return
	}

	c.materials.drain(func(record *MaterialData) {})
	c.textures.drain(func(record *TextureData) {
		c.releaseResource(record.Resource, "texture")
	})
	c.meshes.drain(func(record *MeshData) {
		c.releaseMeshBuffers(record)
	})
	c.shaders.drain(func(record *ShaderData) {
		c.releaseResource(record.Resource, "shader")
	})
}
