//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the folio binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/folio", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Tidies go.mod and regenerates generated sources.
func (Build) Tidy() error {
	return goTidy()
}
