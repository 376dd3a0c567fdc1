//go:build mage

package main

import (
	"fmt"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the heartbeat example module and runs the shell with it.
func (Run) Shell() error {
	mg.Deps(Build.Shell)
	if err := (Build{}).Module(heartbeatSrc); err != nil {
		return err
	}

	fmt.Println("Run shell...")
	module := "heartbeat=" + filepath.Join(targetDir, "libheartbeat"+libExt())
	_, err := executeCmd(filepath.Join(targetDir, "anima-shell"), withArgs("run", "--debug", "--module", module), withStream())
	return err
}

// Runs the shell without a window.
func (Run) Headless() error {
	mg.Deps(Build.Shell)
	_, err := executeCmd(filepath.Join(targetDir, "anima-shell"), withArgs("run", "--headless", "--debug"), withStream())
	return err
}
