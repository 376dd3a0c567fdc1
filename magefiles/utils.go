//go:build mage

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/magefile/mage/mg"
)

type cmdOptions struct {
	args   []string
	env    []string
	stream bool
}

type cmdOption func(*cmdOptions)

func withArgs(args ...string) cmdOption {
	return func(o *cmdOptions) {
		o.args = append(o.args, args...)
	}
}

// withEnv adds KEY=value pairs on top of the current environment.
func withEnv(env ...string) cmdOption {
	return func(o *cmdOptions) {
		o.env = append(o.env, env...)
	}
}

func withStream() cmdOption {
	return func(o *cmdOptions) {
		o.stream = true
	}
}

// executeCmd runs command and returns its combined output. Output is echoed
// while it runs with -v or withStream, otherwise only when it fails.
func executeCmd(command string, options ...cmdOption) (string, error) {
	var opts cmdOptions
	for _, apply := range options {
		apply(&opts)
	}

	if mg.Verbose() && len(opts.env) > 0 {
		fmt.Printf("env: %s\n", strings.Join(opts.env, " "))
	}
	fmt.Printf("> %s %s\n", command, strings.Join(opts.args, " "))

	cmd := exec.Command(command, opts.args...)
	cmd.Env = append(os.Environ(), opts.env...)

	var out bytes.Buffer
	stream := opts.stream || mg.Verbose()
	cmd.Stdout, cmd.Stderr = &out, &out
	if stream {
		cmd.Stdout = io.MultiWriter(&out, os.Stdout)
		cmd.Stderr = io.MultiWriter(&out, os.Stderr)
	}

	if err := cmd.Run(); err != nil {
		if !stream {
			fmt.Print(out.String())
		}
		return out.String(), fmt.Errorf("%s failed: %w", command, err)
	}
	return out.String(), nil
}

const (
	targetDir    = "target"
	heartbeatSrc = "testbed/native/heartbeat.c"
)

func libExt() string {
	switch runtime.GOOS {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

func compiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}
	return "cc"
}
