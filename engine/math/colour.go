package math

// NewColourRGB returns an opaque colour with channels in [0, 1].
func NewColourRGB(r, g, b float32) Vec4 {
	return Vec4{r, g, b, 1}
}

// NewColourHex unpacks 0xRRGGBB.
func NewColourHex(hex uint32) Vec4 {
	return Vec4{
		X: float32((hex>>16)&0xff) / 255,
		Y: float32((hex>>8)&0xff) / 255,
		Z: float32(hex&0xff) / 255,
		W: 1,
	}
}

// NewColourHSL converts hue, saturation and lightness, all in [0, 1], to an opaque RGB colour.
func NewColourHSL(h, s, l float32) Vec4 {
	h = h - float32(int(h))
	if h < 0 {
		h += 1
	}
	s = Clamp(s, 0, 1)
	l = Clamp(l, 0, 1)
	if s == 0 {
		return Vec4{l, l, l, 1}
	}
	var q float32
	if l <= 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return Vec4{
		X: hueToRGB(p, q, h+1.0/3.0),
		Y: hueToRGB(p, q, h),
		Z: hueToRGB(p, q, h-1.0/3.0),
		W: 1,
	}
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*6*(2.0/3.0-t)
	}
	return p
}
