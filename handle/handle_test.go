package handle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/substrate/handle"
)

func TestMake(t *testing.T) {
	h := handle.Make(12345, 7)
	require.Equal(t, uint32(12345), h.Index())
	require.Equal(t, uint32(7), h.Generation())
	require.True(t, h.IsValid())
	require.Equal(t, handle.Handle(7<<24|12345), h)
}

func TestMakeMasksInputs(t *testing.T) {
	h := handle.Make(0x01ABCDEF, 0x1FF)
	require.Equal(t, uint32(0xABCDEF), h.Index())
	require.Equal(t, uint32(0xFF), h.Generation())
}

func TestInvalid(t *testing.T) {
	require.False(t, handle.Invalid.IsValid())
	require.Equal(t, handle.IndexMask, handle.Invalid.Index())
	require.Equal(t, handle.GenerationMask, handle.Invalid.Generation())

	// The largest index with the largest generation is the invalid handle, so it is never issued
	require.Equal(t, handle.Invalid, handle.Make(handle.IndexMask, handle.GenerationMask))
	require.True(t, handle.Make(handle.MaxIndex, handle.GenerationMask).IsValid())
}

func TestString(t *testing.T) {
	require.Equal(t, "Handle(index=3, gen=1)", handle.Make(3, 1).String())
	require.Equal(t, "Handle(invalid)", handle.Invalid.String())
	require.Equal(t, "Texture(index=3, gen=1)", handle.Texture{ID: handle.Make(3, 1)}.String())
	require.Equal(t, "Mesh(invalid)", handle.InvalidMesh.String())
}

func TestTypedHandles(t *testing.T) {
	require.False(t, handle.InvalidTexture.IsValid())
	require.False(t, handle.InvalidMesh.IsValid())
	require.False(t, handle.InvalidMaterial.IsValid())
	require.False(t, handle.InvalidShader.IsValid())

	require.True(t, handle.Texture{ID: handle.Make(0, 0)}.IsValid())
	require.True(t, handle.Shader{ID: handle.Make(5, 2)}.IsValid())

	var zero handle.Material
	require.True(t, zero.IsValid())
}
