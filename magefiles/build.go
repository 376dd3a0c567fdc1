//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles a C module into target/lib<name><ext>, named after the source file.
func (Build) Module(src string) error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out := filepath.Join(targetDir, fmt.Sprintf("lib%s%s", name, libExt()))
	args := []string{"-shared", "-fPIC", "-O2", "-o", out, src}
	if _, err := executeCmd(compiler(), withArgs(args...), withStream()); err != nil {
		return err
	}
	fmt.Printf("module %s built at %s\n", name, out)
	return nil
}

// Builds the shell binary into target/.
func (Build) Shell() error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	// glfw needs cgo even when CGO_ENABLED=0 is set globally
	_, err := executeCmd("go",
		withArgs("build", "-o", filepath.Join(targetDir, "anima-shell"), "."),
		withEnv("CGO_ENABLED=1"),
		withStream())
	return err
}
