package osuhits

import "osuhits/pathapprox"

// Vector2 is a playfield position, aliased from pathapprox since that
// package already carries the float32 arithmetic every curve approximator
// needs and there is no reason for two incompatible vector types in one
// module.
type Vector2 = pathapprox.Vec2
