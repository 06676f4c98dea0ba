package shadergraph

import "fmt"

// Kind is the type of a shader node.
type Kind int

// Node kinds.
const (
	KindOutput Kind = iota
	KindPrincipledBSDF
	KindTransparentBSDF
	KindVelvetBSDF
	KindEmission
	KindAbsorptionVolume
	KindImageTexture
	KindMixRGB
	KindMixClosure
	KindAddClosure
	KindSeparateRGB
	KindSeparateHSV
	KindMath
	KindNormalMap
	KindGeometry
	KindUVMap
	KindMapping
)

// Socket names shared by several kinds.
const (
	SocketSurface = "Surface"
	SocketVolume  = "Volume"
	SocketBSDF    = "BSDF"
	SocketClosure = "Closure"
	SocketColor   = "Color"
	SocketAlpha   = "Alpha"
	SocketVector  = "Vector"
	SocketValue   = "Value"
	SocketFac     = "Fac"
)

type kindSpec struct {
	name    string
	inputs  []string
	outputs []string
}

var kinds = map[Kind]kindSpec{
	KindOutput: {
		name:   "Output",
		inputs: []string{SocketSurface, SocketVolume},
	},
	KindPrincipledBSDF: {
		name: "PrincipledBSDF",
		inputs: []string{
			"Base Color", "Metallic", "Roughness", "Alpha", "IOR", "Normal",
			"Transmission", "Clearcoat", "Clearcoat Roughness", "Specular",
		},
		outputs: []string{SocketBSDF},
	},
	KindTransparentBSDF: {
		name:    "TransparentBSDF",
		inputs:  []string{SocketColor},
		outputs: []string{SocketBSDF},
	},
	KindVelvetBSDF: {
		name:    "VelvetBSDF",
		inputs:  []string{SocketColor, "Sigma", "Normal"},
		outputs: []string{SocketBSDF},
	},
	KindEmission: {
		name:    "Emission",
		inputs:  []string{SocketColor, "Strength"},
		outputs: []string{"Emission"},
	},
	KindAbsorptionVolume: {
		name:    "AbsorptionVolume",
		inputs:  []string{SocketColor, "Density"},
		outputs: []string{SocketVolume},
	},
	KindImageTexture: {
		name:    "ImageTexture",
		inputs:  []string{SocketVector},
		outputs: []string{SocketColor, SocketAlpha},
	},
	KindMixRGB: {
		name:    "MixRGB",
		inputs:  []string{SocketFac, "Color1", "Color2"},
		outputs: []string{SocketColor},
	},
	KindMixClosure: {
		name:    "MixClosure",
		inputs:  []string{SocketFac, "Closure1", "Closure2"},
		outputs: []string{SocketClosure},
	},
	KindAddClosure: {
		name:    "AddClosure",
		inputs:  []string{"Closure1", "Closure2"},
		outputs: []string{SocketClosure},
	},
	KindSeparateRGB: {
		name:    "SeparateRGB",
		inputs:  []string{"Image"},
		outputs: []string{"R", "G", "B"},
	},
	KindSeparateHSV: {
		name:    "SeparateHSV",
		inputs:  []string{SocketColor},
		outputs: []string{"H", "S", "V"},
	},
	KindMath: {
		name:    "Math",
		inputs:  []string{"Value1", "Value2"},
		outputs: []string{SocketValue},
	},
	KindNormalMap: {
		name:    "NormalMap",
		inputs:  []string{"Strength", SocketColor},
		outputs: []string{"Normal"},
	},
	KindGeometry: {
		name:    "Geometry",
		outputs: []string{"Position", "Normal", "Backfacing"},
	},
	KindUVMap: {
		name:    "UVMap",
		outputs: []string{"UV"},
	},
	KindMapping: {
		name:    "Mapping",
		inputs:  []string{SocketVector},
		outputs: []string{SocketVector},
	},
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kinds[k]; ok {
		return s.name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Inputs returns the input socket names of the kind.
func (k Kind) Inputs() []string {
	return kinds[k].inputs
}

// Outputs returns the output socket names of the kind.
func (k Kind) Outputs() []string {
	return kinds[k].outputs
}
