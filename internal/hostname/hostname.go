// SPDX-License-Identifier: MPL-2.0

// Package hostname resolves the machine's hostname for target matching.
//
// Sources are tried in order: the ZENV_HOSTNAME override, the HOSTNAME
// environment variable, os.Hostname, and finally the hostname command.
// An empty result from one source falls through to the next; exhausting
// all of them is ErrMissingHostname, a hard error for every operation
// that needs host matching (unless the caller bypasses the check).
package hostname

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

// EnvOverride short-circuits all other sources when set. It doubles as
// the test hook for host-matching behavior.
const EnvOverride = "ZENV_HOSTNAME"

// ErrMissingHostname is returned when no source yields a hostname.
var ErrMissingHostname = errors.New("unable to determine hostname (set ZENV_HOSTNAME to override)")

// The OS-level sources are variables so tests can stub them away.
var (
	osHostname = os.Hostname

	commandOutput = func() (string, error) {
		out, err := exec.Command("hostname").Output()
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
)

// Current returns the machine's hostname from the first source that
// yields a non-empty result.
func Current() (string, error) {
	if h := strings.TrimSpace(os.Getenv(EnvOverride)); h != "" {
		return h, nil
	}
	if h := strings.TrimSpace(os.Getenv("HOSTNAME")); h != "" {
		return h, nil
	}
	if h, err := osHostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}
	if out, err := commandOutput(); err == nil {
		if h := strings.TrimSpace(out); h != "" {
			return h, nil
		}
	}
	return "", ErrMissingHostname
}

// ClusterName derives the logical machine-group label from a hostname.
// HPC login nodes are conventionally named <node>.<cluster>[.<domain>...],
// so the second dot-separated label names the cluster. A hostname without
// dots is its own cluster name.
func ClusterName(host string) string {
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[1]
	}
	return host
}

// CurrentCluster resolves the current hostname and derives its cluster
// name. Used by the configuration merger for auto-targeting when an
// environment declares no explicit targets.
func CurrentCluster() (string, error) {
	host, err := Current()
	if err != nil {
		return "", err
	}
	return ClusterName(host), nil
}
