package math

func TransformCreate() *Transform {
	return &Transform{
		Scale:   NewVec3One(),
		IsDirty: true,
		Local:   NewMat4Identity(),
	}
}

func TransformFromPosition(position Vec3) *Transform {
	t := TransformCreate()
	t.Position = position
	return t
}

func TransformFromPositionRotation(position, rotation Vec3) *Transform {
	t := TransformFromPosition(position)
	t.Rotation = rotation
	return t
}

func (t *Transform) SetPosition(position Vec3) {
	t.Position = position
	t.IsDirty = true
}

// Rotate adds delta radians to each axis.
func (t *Transform) Rotate(delta Vec3) {
	t.Rotation = t.Rotation.Add(delta)
	t.IsDirty = true
}

func (t *Transform) GetLocal() Mat4 {
	if t != nil {
		if t.IsDirty {
			r := NewMat4EulerXYZ(t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
			tr := r.Mul(NewMat4Translation(t.Position))
			s := NewMat4Scale(t.Scale)
			t.Local = s.Mul(tr)
			t.IsDirty = false
		}
		return t.Local
	}
	return NewMat4Identity()
}

func (t *Transform) GetWorld() Mat4 {
	if t != nil {
		l := t.GetLocal()
		if t.Parent != nil {
			p := t.Parent.GetWorld()
			return l.Mul(p)
		}
		return l
	}
	return NewMat4Identity()
}
