// Package resources bundles the assets the built-in scenes fall back to, so they
// load regardless of the working directory.
package resources

import _ "embed"

// IcosahedronOBJ is a unit icosahedron with outward counter-clockwise winding
//
//go:embed icosahedron.obj
var IcosahedronOBJ []byte

// IcosahedronName labels the embedded mesh in diagnostics
const IcosahedronName = "icosahedron.obj"
