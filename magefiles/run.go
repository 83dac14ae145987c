//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the page in a window.
func (Run) Window() error {
	fmt.Println("Run folio...")
	if _, err := executeCmd("go", withArgs("run", ".", "run"), withStream()); err != nil {
		return err
	}
	return nil
}

// Renders every section headless into snapshots/.
func (Run) Snapshot() error {
	mg.Deps(Build.Binary)
	fmt.Println("Rendering snapshots...")
	if _, err := executeCmd("bin/folio", withArgs("snapshot", "--out", "snapshots"), withStream()); err != nil {
		return err
	}
	return nil
}

// Validates the configuration and every section scene.
func (Run) Validate() error {
	if _, err := executeCmd("go", withArgs("run", ".", "validate"), withStream()); err != nil {
		return err
	}
	return nil
}
