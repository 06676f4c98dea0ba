package gltfext

import (
	"errors"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/specular"
)

// SpecularGlossiness is KHR_materials_pbrSpecularGlossiness.
type SpecularGlossiness struct {
	DiffuseFactor             [4]float32
	DiffuseTexture            *gltf.TextureInfo
	SpecularFactor            [3]float32
	GlossinessFactor          float32
	SpecularGlossinessTexture *gltf.TextureInfo
}

// Transmission is KHR_materials_transmission.
type Transmission struct {
	Factor  *float32
	Texture *gltf.TextureInfo
}

// IOR is KHR_materials_ior.
type IOR struct {
	IOR float32
}

// Volume is KHR_materials_volume.
type Volume struct {
	ThicknessFactor     *float32
	AttenuationDistance *float32
	AttenuationColor    *[3]float32
}

// Clearcoat is KHR_materials_clearcoat.
type Clearcoat struct {
	Factor           *float32
	Texture          *gltf.TextureInfo
	RoughnessFactor  *float32
	RoughnessTexture *gltf.TextureInfo
}

// Sheen is KHR_materials_sheen.
type Sheen struct {
	ColorFactor      *[3]float32
	ColorTexture     *gltf.TextureInfo
	RoughnessFactor  *float32
	RoughnessTexture *gltf.TextureInfo
}

// Specular is KHR_materials_specular.
type Specular struct {
	Factor       *float32
	Texture      *gltf.TextureInfo
	ColorFactor  *[3]float32
	ColorTexture *gltf.TextureInfo
}

// EmissiveStrength is KHR_materials_emissive_strength.
type EmissiveStrength struct {
	Strength float32
}

// Material holds every supported extension present on one material.
// Absent extensions are nil.
type Material struct {
	SpecularGlossiness *SpecularGlossiness
	Transmission       *Transmission
	IOR                *IOR
	Volume             *Volume
	Clearcoat          *Clearcoat
	Sheen              *Sheen
	Specular           *Specular
	EmissiveStrength   *EmissiveStrength
}

// Names returns the names of the extensions present.
func (m Material) Names() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(m.SpecularGlossiness != nil, NameSpecularGlossiness)
	add(m.Transmission != nil, NameTransmission)
	add(m.IOR != nil, NameIOR)
	add(m.Volume != nil, NameVolume)
	add(m.Clearcoat != nil, NameClearcoat)
	add(m.Sheen != nil, NameSheen)
	add(m.Specular != nil, NameSpecular)
	add(m.EmissiveStrength != nil, NameEmissiveStrength)
	return names
}

// MaterialExtensions decodes the material extensions of m.
// Malformed extensions are left nil and reported in the joined error; the
// remaining extensions are still returned.
func MaterialExtensions(m *gltf.Material) (Material, error) {
	var out Material
	if m == nil || len(m.Extensions) == 0 {
		return out, nil
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if v, ok, err := typed(m.Extensions, NameSpecularGlossiness, specular.Unmarshal); err != nil {
		collect(err)
	} else if ok {
		if raw, isSG := v.(*specular.PBRSpecularGlossiness); isSG && raw != nil {
			out.SpecularGlossiness = specularGlossiness(raw)
		} else {
			collect(unexpected(NameSpecularGlossiness, v))
		}
	}

	{
		var raw struct {
			Factor  *float64          `json:"transmissionFactor"`
			Texture *gltf.TextureInfo `json:"transmissionTexture"`
		}
		ok, err := decode(m.Extensions, NameTransmission, &raw)
		collect(err)
		if ok && err == nil {
			out.Transmission = &Transmission{Factor: f32(raw.Factor), Texture: raw.Texture}
		}
	}

	{
		var raw struct {
			IOR *float64 `json:"ior"`
		}
		ok, err := decode(m.Extensions, NameIOR, &raw)
		collect(err)
		if ok && err == nil {
			ior := &IOR{IOR: 1.5}
			if raw.IOR != nil {
				ior.IOR = float32(*raw.IOR)
			}
			out.IOR = ior
		}
	}

	{
		var raw struct {
			ThicknessFactor     *float64    `json:"thicknessFactor"`
			AttenuationDistance *float64    `json:"attenuationDistance"`
			AttenuationColor    *[3]float64 `json:"attenuationColor"`
		}
		ok, err := decode(m.Extensions, NameVolume, &raw)
		collect(err)
		if ok && err == nil {
			out.Volume = &Volume{
				ThicknessFactor:     f32(raw.ThicknessFactor),
				AttenuationDistance: f32(raw.AttenuationDistance),
				AttenuationColor:    vec3(raw.AttenuationColor),
			}
		}
	}

	{
		var raw struct {
			Factor           *float64          `json:"clearcoatFactor"`
			Texture          *gltf.TextureInfo `json:"clearcoatTexture"`
			RoughnessFactor  *float64          `json:"clearcoatRoughnessFactor"`
			RoughnessTexture *gltf.TextureInfo `json:"clearcoatRoughnessTexture"`
		}
		ok, err := decode(m.Extensions, NameClearcoat, &raw)
		collect(err)
		if ok && err == nil {
			out.Clearcoat = &Clearcoat{
				Factor:           f32(raw.Factor),
				Texture:          raw.Texture,
				RoughnessFactor:  f32(raw.RoughnessFactor),
				RoughnessTexture: raw.RoughnessTexture,
			}
		}
	}

	{
		var raw struct {
			ColorFactor      *[3]float64       `json:"sheenColorFactor"`
			ColorTexture     *gltf.TextureInfo `json:"sheenColorTexture"`
			RoughnessFactor  *float64          `json:"sheenRoughnessFactor"`
			RoughnessTexture *gltf.TextureInfo `json:"sheenRoughnessTexture"`
		}
		ok, err := decode(m.Extensions, NameSheen, &raw)
		collect(err)
		if ok && err == nil {
			out.Sheen = &Sheen{
				ColorFactor:      vec3(raw.ColorFactor),
				ColorTexture:     raw.ColorTexture,
				RoughnessFactor:  f32(raw.RoughnessFactor),
				RoughnessTexture: raw.RoughnessTexture,
			}
		}
	}

	{
		var raw struct {
			Factor       *float64          `json:"specularFactor"`
			Texture      *gltf.TextureInfo `json:"specularTexture"`
			ColorFactor  *[3]float64       `json:"specularColorFactor"`
			ColorTexture *gltf.TextureInfo `json:"specularColorTexture"`
		}
		ok, err := decode(m.Extensions, NameSpecular, &raw)
		collect(err)
		if ok && err == nil {
			out.Specular = &Specular{
				Factor:       f32(raw.Factor),
				Texture:      raw.Texture,
				ColorFactor:  vec3(raw.ColorFactor),
				ColorTexture: raw.ColorTexture,
			}
		}
	}

	{
		var raw struct {
			Strength *float64 `json:"emissiveStrength"`
		}
		ok, err := decode(m.Extensions, NameEmissiveStrength, &raw)
		collect(err)
		if ok && err == nil {
			es := &EmissiveStrength{Strength: 1}
			if raw.Strength != nil {
				es.Strength = float32(*raw.Strength)
			}
			out.EmissiveStrength = es
		}
	}

	return out, errors.Join(errs...)
}

func specularGlossiness(raw *specular.PBRSpecularGlossiness) *SpecularGlossiness {
	sg := &SpecularGlossiness{
		DiffuseFactor:             [4]float32{1, 1, 1, 1},
		DiffuseTexture:            raw.DiffuseTexture,
		SpecularFactor:            [3]float32{1, 1, 1},
		GlossinessFactor:          1,
		SpecularGlossinessTexture: raw.SpecularGlossinessTexture,
	}
	if raw.DiffuseFactor != nil {
		for i, v := range raw.DiffuseFactor {
			sg.DiffuseFactor[i] = float32(v)
		}
	}
	if raw.SpecularFactor != nil {
		sg.SpecularFactor = *vec3(raw.SpecularFactor)
	}
	if raw.GlossinessFactor != nil {
		sg.GlossinessFactor = float32(*raw.GlossinessFactor)
	}
	return sg
}
