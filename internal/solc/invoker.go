// Package solc drives the Solidity compiler toolchain: it bootstraps
// solc-select when missing, pins the requested compiler version, and
// runs solc in --standard-json mode.
package solc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/altuslabsxyz/solbuild/internal/output"
)

const (
	// solcBinary is the compiler executable managed by solc-select.
	solcBinary = "solc"

	// solcSelectBinary is the version manager executable.
	solcSelectBinary = "solc-select"

	// pipBinary installs solc-select when it is missing.
	pipBinary = "pip3"
)

// DefaultTimeout bounds a single compiler run.
const DefaultTimeout = 10 * time.Minute

// Invoker runs version-pinned solc compilations through solc-select.
type Invoker struct {
	timeout time.Duration
	logger  *output.Logger
}

// NewInvoker creates an invoker with the default subprocess timeout.
func NewInvoker(logger *output.Logger) *Invoker {
	return NewInvokerWithTimeout(DefaultTimeout, logger)
}

// NewInvokerWithTimeout creates an invoker with a custom subprocess
// timeout. Useful for tests and for very large compilations.
func NewInvokerWithTimeout(timeout time.Duration, logger *output.Logger) *Invoker {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Invoker{
		timeout: timeout,
		logger:  logger,
	}
}

// Invoke compiles a standard JSON input document with the compiler
// version named in versionString and returns the raw output document.
//
// versionString may be any string containing a bare X.Y.Z release, such
// as Hardhat's "0.8.17+commit.8df45f5f". When no version can be parsed
// out of it, the currently selected solc is used and a warning is
// logged, matching the lenient behavior expected from local dev loops.
func (i *Invoker) Invoke(ctx context.Context, versionString string, input []byte) ([]byte, error) {
	version, ok := ExtractVersion(versionString)
	if !ok {
		i.logger.Warn("Could not parse solc version from %q, using currently selected compiler", versionString)
	} else {
		if err := i.ensureSolcSelect(ctx); err != nil {
			return nil, err
		}
		if err := i.useVersion(ctx, version); err != nil {
			return nil, err
		}
	}
	return i.compile(ctx, input)
}

// ensureSolcSelect checks that solc-select is available, installing it
// through pip3 on first use.
func (i *Invoker) ensureSolcSelect(ctx context.Context) error {
	if _, err := exec.LookPath(solcSelectBinary); err == nil {
		return nil
	}

	i.logger.Info("solc-select not found, installing via %s...", pipBinary)
	if _, err := exec.LookPath(pipBinary); err != nil {
		return &ToolNotFoundError{
			Tool: solcSelectBinary,
			Hint: "install it with `pip3 install solc-select`",
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, pipBinary, "install", "solc-select")
	var stderrBuf strings.Builder
	cmd.Stdout = i.logger.Writer()
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return &InvocationError{
			Operation: "bootstrap",
			Stderr:    stderrBuf.String(),
			Err:       err,
		}
	}

	// pip succeeded but the entry point may still be outside PATH.
	if _, err := exec.LookPath(solcSelectBinary); err != nil {
		return &ToolNotFoundError{
			Tool: solcSelectBinary,
			Hint: "installed via pip3 but not in PATH, check your pip script directory",
		}
	}

	i.logger.Success("solc-select installed")
	return nil
}

// useVersion pins the active compiler version, downloading the release
// on first use.
func (i *Invoker) useVersion(ctx context.Context, version string) error {
	i.logger.Debug("Selecting solc %s", version)

	timeoutCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, solcSelectBinary, "use", version, "--always-install")
	var stderrBuf strings.Builder
	cmd.Stdout = i.logger.Writer()
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return &InvocationError{
			Operation: fmt.Sprintf("select version %s", version),
			Stderr:    stderrBuf.String(),
			Err:       err,
		}
	}
	return nil
}

// Use pins the active compiler version, installing it on first use.
// solc-select itself is bootstrapped when missing.
func (i *Invoker) Use(ctx context.Context, versionString string) error {
	version, ok := ExtractVersion(versionString)
	if !ok {
		return fmt.Errorf("no solc version in %q", versionString)
	}
	if err := i.ensureSolcSelect(ctx); err != nil {
		return err
	}
	return i.useVersion(ctx, version)
}

// Install downloads a compiler release without switching the active
// version.
func (i *Invoker) Install(ctx context.Context, versionString string) error {
	version, ok := ExtractVersion(versionString)
	if !ok {
		return fmt.Errorf("no solc version in %q", versionString)
	}
	if err := i.ensureSolcSelect(ctx); err != nil {
		return err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, solcSelectBinary, "install", version)
	var stderrBuf strings.Builder
	cmd.Stdout = i.logger.Writer()
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return &InvocationError{
			Operation: fmt.Sprintf("install version %s", version),
			Stderr:    stderrBuf.String(),
			Err:       err,
		}
	}
	return nil
}

// compile runs `solc --standard-json` with the input document on stdin
// and returns the output document from stdout. solc reports source-level
// errors inside the output JSON and still exits zero, so a non-zero exit
// here always means the invocation itself broke.
func (i *Invoker) compile(ctx context.Context, input []byte) ([]byte, error) {
	if _, err := exec.LookPath(solcBinary); err != nil {
		return nil, &ToolNotFoundError{
			Tool: solcBinary,
			Hint: "run `solc-select install` to download a compiler",
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, solcBinary, "--standard-json")
	cmd.Stdin = bytes.NewReader(input)

	var stdoutBuf bytes.Buffer
	var stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	i.logger.Debug("Running %s --standard-json (%d bytes of input)", solcBinary, len(input))
	if err := cmd.Run(); err != nil {
		return nil, &InvocationError{
			Operation: "compile",
			Stderr:    stderrBuf.String(),
			Err:       err,
		}
	}

	if stderr := strings.TrimSpace(stderrBuf.String()); stderr != "" {
		i.logger.Debug("solc stderr: %s", stderr)
	}
	return stdoutBuf.Bytes(), nil
}

// CurrentVersion reports the full version of the currently selected
// solc binary.
func (i *Invoker) CurrentVersion(ctx context.Context) (string, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, solcBinary, "--version")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", &InvocationError{
			Operation: "version check",
			Stderr:    string(out),
			Err:       err,
		}
	}

	version, ok := ParseSolcVersion(string(out))
	if !ok {
		return "", fmt.Errorf("could not parse solc version from output: %s", strings.TrimSpace(string(out)))
	}
	return version, nil
}

// InstalledVersions lists the compiler releases solc-select has
// downloaded locally.
func (i *Invoker) InstalledVersions(ctx context.Context) ([]string, error) {
	if _, err := exec.LookPath(solcSelectBinary); err != nil {
		return nil, &ToolNotFoundError{
			Tool: solcSelectBinary,
			Hint: "install it with `pip3 install solc-select`",
		}
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, solcSelectBinary, "versions")
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		return nil, &InvocationError{
			Operation: "list versions",
			Stderr:    stderr,
			Err:       err,
		}
	}

	var versions []string
	for _, line := range strings.Split(string(out), "\n") {
		if v, ok := ExtractVersion(line); ok {
			versions = append(versions, v)
		}
	}
	return versions, nil
}
