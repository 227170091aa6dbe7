package project

import (
	"fmt"
	"strings"
)

// MissingVersionError is returned when no compiler version is pinned
// anywhere: not on the command line and not in the project config.
type MissingVersionError struct {
	Dir string
}

func (e *MissingVersionError) Error() string {
	return fmt.Sprintf("no solc version for %s: pass --solc-version or pin one in the project config", e.Dir)
}

// UpstreamBuildError is returned when the project's own build tool had
// to run and failed, or produced nothing usable.
type UpstreamBuildError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *UpstreamBuildError) Error() string {
	msg := fmt.Sprintf("%s build failed", e.Tool)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n" + stderr
	}
	return msg
}

func (e *UpstreamBuildError) Unwrap() error {
	return e.Err
}

// NoSourcesError is returned when source collection finds no Solidity
// files.
type NoSourcesError struct {
	Dir string
}

func (e *NoSourcesError) Error() string {
	return fmt.Sprintf("no Solidity sources found under %s", e.Dir)
}
