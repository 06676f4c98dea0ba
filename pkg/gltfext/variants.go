package gltfext

import (
	"fmt"

	"github.com/qmuntal/gltf"
)

// DocumentVariants returns the material variant names declared by the
// document. Unnamed variants are called "Variant N".
func DocumentVariants(doc *gltf.Document) ([]string, error) {
	var raw struct {
		Variants []struct {
			Name *string `json:"name"`
		} `json:"variants"`
	}
	if doc == nil {
		return nil, nil
	}
	if ok, err := decode(doc.Extensions, NameMaterialsVariants, &raw); !ok || err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw.Variants))
	for _, v := range raw.Variants {
		if v.Name != nil {
			names = append(names, *v.Name)
		} else {
			names = append(names, fmt.Sprintf("Variant %d", len(names)))
		}
	}
	return names, nil
}

// PrimitiveVariants returns the variant index to material index mapping of
// a primitive. A nil map means the primitive has no variant overrides.
func PrimitiveVariants(prim *gltf.Primitive) (map[int]int, error) {
	var raw struct {
		Mappings []struct {
			Material *int  `json:"material"`
			Variants []int `json:"variants"`
		} `json:"mappings"`
	}
	if prim == nil {
		return nil, nil
	}
	if ok, err := decode(prim.Extensions, NameMaterialsVariants, &raw); !ok || err != nil {
		return nil, err
	}

	var mapping map[int]int
	for _, m := range raw.Mappings {
		if m.Material == nil || *m.Material < 0 {
			continue
		}
		for _, v := range m.Variants {
			if v < 0 {
				continue
			}
			if mapping == nil {
				mapping = make(map[int]int)
			}
			mapping[v] = *m.Material
		}
	}
	return mapping, nil
}
