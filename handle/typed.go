package handle

// Texture refers to a texture record in an asset cache
type Texture struct {
	ID Handle
}

// Mesh refers to a mesh record in an asset cache
type Mesh struct {
	ID Handle
}

// Material refers to a material record in an asset cache
type Material struct {
	ID Handle
}

// Shader refers to a shader record in an asset cache
type Shader struct {
	ID Handle
}

var (
	InvalidTexture  = Texture{ID: Invalid}
	InvalidMesh     = Mesh{ID: Invalid}
	InvalidMaterial = Material{ID: Invalid}
	InvalidShader   = Shader{ID: Invalid}
)

func (h Texture) IsValid() bool  { return h.ID.IsValid() }
func (h Mesh) IsValid() bool     { return h.ID.IsValid() }
func (h Material) IsValid() bool { return h.ID.IsValid() }
func (h Shader) IsValid() bool   { return h.ID.IsValid() }

func (h Texture) String() string  { return "Texture" + h.ID.String()[len("Handle"):] }
func (h Mesh) String() string     { return "Mesh" + h.ID.String()[len("Handle"):] }
func (h Material) String() string { return "Material" + h.ID.String()[len("Handle"):] }
func (h Shader) String() string   { return "Shader" + h.ID.String()[len("Handle"):] }
