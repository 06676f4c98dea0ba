package math

// Vec2 is a 2D vector, mostly texture coordinates.
type Vec2 struct {
	X, Y float32
}

// V2 converts a glTF [2]float32 to a Vec2.
func V2(a [2]float32) Vec2 {
	return Vec2{a[0], a[1]}
}

// Array returns the components as an array.
func (v Vec2) Array() [2]float32 {
	return [2]float32{v.X, v.Y}
}

// Mul returns the component-wise product.
func (v Vec2) Mul(other Vec2) Vec2 {
	return Vec2{v.X * other.X, v.Y * other.Y}
}

// FlipV mirrors a texture coordinate between the glTF top-left origin
// and a bottom-left one.
func (v Vec2) FlipV() Vec2 {
	return Vec2{v.X, 1 - v.Y}
}
