package adm

// ToPolar returns a copy of the metadata block converted to the polar
// convention. Blocks already flagged polar pass through unchanged.
//
// Divergence parameters are carried over as-is: the divergence conversion
// between conventions produces inconsistent results in the reference
// equations and is intentionally not applied.
func ToPolar(in ObjectMetadata) ObjectMetadata {
	out := in
	if in.Cartesian && !in.Position.IsPolar() {
		polar, whd := ExtentCartToPolar(in.Position.Cartesian(), in.Width, in.Height, in.Depth)
		out.Position = PolarPos(polar.Azimuth, polar.Elevation, polar.Distance)
		out.Width = whd[0]
		out.Height = whd[1]
		out.Depth = whd[2]
		out.Cartesian = false
	}
	return out
}

// ToCartesian returns a copy of the metadata block converted to the
// cartesian convention. Blocks already flagged cartesian pass through
// unchanged. Divergence parameters are carried over as-is, as in ToPolar.
func ToCartesian(in ObjectMetadata) ObjectMetadata {
	out := in
	if !in.Cartesian && in.Position.IsPolar() {
		cart, xyz := ExtentPolarToCart(in.Position.Polar(), in.Width, in.Height, in.Depth)
		out.Position = CartesianPos(cart.X, cart.Y, cart.Z)
		out.Width = xyz[0]
		out.Height = xyz[1]
		out.Depth = xyz[2]
		out.Cartesian = true
	}
	return out
}
