package maybenot

import "fmt"

// InvalidDistributionError reports a distribution whose parameters are
// rejected at construction time (§4.1). Kind is the DistKind that failed
// validation; Reason describes which constraint was violated.
type InvalidDistributionError struct {
	Kind   DistKind
	Reason string
}

// Error implements the error interface.
func (e *InvalidDistributionError) Error() string {
	return fmt.Sprintf("maybenot: invalid %s distribution: %s", e.Kind, e.Reason)
}

// InvalidStateError reports a state whose transition table or counter
// configuration violates a Machine invariant (§4.2).
type InvalidStateError struct {
	Index  int
	Reason string
}

// Error implements the error interface.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("maybenot: invalid state %d: %s", e.Index, e.Reason)
}

// InvalidMachineError reports an aggregate Machine invariant violation, such
// as an out-of-range fraction or a state count outside [1, StateMax].
type InvalidMachineError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidMachineError) Error() string {
	return fmt.Sprintf("maybenot: invalid machine: %s", e.Reason)
}

// MachineParseReason enumerates the ways ParseMachine can fail to recover a
// Machine from its canonical string form.
type MachineParseReason int

const (
	// ParseUnsupportedVersion means the leading version byte is not one
	// this build knows how to decode.
	ParseUnsupportedVersion MachineParseReason = iota
	// ParseCorrupt means the base32 or deflate layer could not be decoded.
	ParseCorrupt
	// ParseOversizedDecompressed means the deflate layer decompressed past
	// MaxDecompressedSize.
	ParseOversizedDecompressed
	// ParseInvalid means decoding succeeded but the resulting Machine
	// failed construction validation; Err holds the underlying cause.
	ParseInvalid
)

// String renders the reason for diagnostics.
func (r MachineParseReason) String() string {
	switch r {
	case ParseUnsupportedVersion:
		return "unsupported version"
	case ParseCorrupt:
		return "corrupt"
	case ParseOversizedDecompressed:
		return "oversized decompressed payload"
	case ParseInvalid:
		return "invalid machine"
	default:
		return "unknown"
	}
}

// MachineParseError reports why ParseMachine could not recover a Machine
// from a canonical string (§4.2, §6).
type MachineParseError struct {
	Reason MachineParseReason
	Err    error
}

// Error implements the error interface.
func (e *MachineParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("maybenot: parse machine: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("maybenot: parse machine: %s", e.Reason)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *MachineParseError) Unwrap() error {
	return e.Err
}

// FrameworkInitReason enumerates the ways NewFramework can refuse to
// construct a Framework.
type FrameworkInitReason int

const (
	// InitBadFraction means a max-padding or max-blocking fraction was
	// outside [0,1].
	InitBadFraction FrameworkInitReason = iota
	// InitBadMachine means one of the supplied machines failed its own
	// construction invariants.
	InitBadMachine
)

// String renders the reason for diagnostics.
func (r FrameworkInitReason) String() string {
	switch r {
	case InitBadFraction:
		return "bad fraction"
	case InitBadMachine:
		return "bad machine"
	default:
		return "unknown"
	}
}

// FrameworkInitError reports why NewFramework refused to construct a
// Framework (§4.3, §6).
type FrameworkInitError struct {
	Reason FrameworkInitReason
	Err    error
}

// Error implements the error interface.
func (e *FrameworkInitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("maybenot: framework init: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("maybenot: framework init: %s", e.Reason)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *FrameworkInitError) Unwrap() error {
	return e.Err
}
