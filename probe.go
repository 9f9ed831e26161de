package fsbench

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/fsbench/vfs"
)

// ProbeOutcome classifies a capability probe.
type ProbeOutcome int

const (
	// ProbeSupported means the capability works.
	ProbeSupported ProbeOutcome = iota
	// ProbeUnsupported means the backend reported vfs.ErrUnsupported.
	ProbeUnsupported
	// ProbeFailed means the probe hit any other error.
	ProbeFailed
)

func (o ProbeOutcome) String() string {
	switch o {
	case ProbeSupported:
		return "supported"
	case ProbeUnsupported:
		return "unsupported"
	case ProbeFailed:
		return "failed"
	default:
		return fmt.Sprintf("ProbeOutcome(%d)", int(o))
	}
}

// ProbeResult is the tagged outcome of a probe. Cause is set for
// ProbeUnsupported and ProbeFailed.
type ProbeResult struct {
	Outcome ProbeOutcome
	Cause   error
}

// Supported reports whether the capability may be used.
// Unsupported and failed probes both disable it.
func (r ProbeResult) Supported() bool {
	return r.Outcome == ProbeSupported
}

func probeError(err error) ProbeResult {
	if errors.Is(err, vfs.ErrUnsupported) {
		return ProbeResult{Outcome: ProbeUnsupported, Cause: err}
	}
	return ProbeResult{Outcome: ProbeFailed, Cause: err}
}

// ProbeAppend creates an empty file at scratch, opens it for append and
// closes it. It never returns an error; the scratch file is always deleted
// and a failed delete is ignored.
func ProbeAppend(ctx context.Context, fsys vfs.FileSystem, scratch string) (res ProbeResult) {
	defer func() {
		_, _ = fsys.Delete(context.WithoutCancel(ctx), scratch, false)
	}()
	defer func() {
		if r := recover(); r != nil {
			res = ProbeResult{Outcome: ProbeFailed, Cause: fmt.Errorf("append probe panicked: %v", r)}
		}
	}()

	f, err := fsys.Create(ctx, scratch)
	if err != nil {
		return probeError(fmt.Errorf("create scratch: %w", err))
	}
	if err := f.Close(); err != nil {
		return probeError(fmt.Errorf("close scratch: %w", err))
	}

	f, err = fsys.Append(ctx, scratch)
	if err != nil {
		return probeError(fmt.Errorf("append: %w", err))
	}
	if err := f.Close(); err != nil {
		return probeError(fmt.Errorf("close append: %w", err))
	}
	return ProbeResult{Outcome: ProbeSupported}
}
