package shading

import "github.com/chewxy/math32"

// dielectricSpecular is the reflectance at normal incidence of a typical
// dielectric.
const dielectricSpecular = 0.04

const epsilon = 1e-6

// ConvertSpecularGlossiness maps a specular-glossiness parameter set to an
// equivalent metallic-roughness one.
func ConvertSpecularGlossiness(diffuse [4]float32, specular [3]float32, glossiness float32) (baseColor [4]float32, metallic, roughness float32) {
	diffuseRGB := [3]float32{diffuse[0], diffuse[1], diffuse[2]}
	oneMinusSpecularStrength := 1 - math32.Max(specular[0], math32.Max(specular[1], specular[2]))

	metallic = solveMetallic(
		perceivedBrightness(diffuseRGB),
		perceivedBrightness(specular),
		oneMinusSpecularStrength,
	)

	for i := 0; i < 3; i++ {
		fromDiffuse := diffuse[i] * oneMinusSpecularStrength / (1 - dielectricSpecular) / math32.Max(1-metallic, epsilon)
		fromSpecular := (specular[i] - dielectricSpecular*(1-metallic)) / math32.Max(metallic, epsilon)
		baseColor[i] = clamp01(lerp(fromDiffuse, fromSpecular, metallic*metallic))
	}
	baseColor[3] = diffuse[3]

	roughness = clamp01(1 - glossiness)
	return baseColor, metallic, roughness
}

func perceivedBrightness(c [3]float32) float32 {
	return math32.Sqrt(0.299*c[0]*c[0] + 0.587*c[1]*c[1] + 0.114*c[2]*c[2])
}

// solveMetallic solves a*m^2 + b*m + c = 0 for the metallic value m.
// Specular at or below the dielectric reflectance is non-metallic.
func solveMetallic(diffuse, specular, oneMinusSpecularStrength float32) float32 {
	if specular <= dielectricSpecular+1e-4 {
		return 0
	}

	a := float32(dielectricSpecular)
	b := diffuse*oneMinusSpecularStrength/(1-dielectricSpecular) + specular - 2*dielectricSpecular
	c := dielectricSpecular - specular
	d := math32.Max(b*b-4*a*c, 0)
	return clamp01((-b + math32.Sqrt(d)) / (2 * a))
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(v, 1))
}
