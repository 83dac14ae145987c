package core

import "github.com/google/uuid"

// Identifier names a runtime instance in log lines and debug overlays.
type Identifier string

func NewIdentifier() Identifier {
	return Identifier(uuid.NewString())
}

// Short returns the first block of the uuid, enough to tell runtimes apart in logs.
func (id Identifier) Short() string {
	if len(id) < 8 {
		return string(id)
	}
	return string(id[:8])
}
