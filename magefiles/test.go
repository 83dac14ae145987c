//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every package test.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the tests with the race detector; the asset watcher is the only goroutine.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./engine/assets/...", "./portfolio/..."), withStream())
	return err
}
