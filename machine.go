package maybenot

import (
	"bytes"
	"compress/flate"
	"encoding/base32"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// machineVersion is the version byte prefixed to every canonical machine
// string. Only one version is produced or accepted by this build (§4.2); a
// v1 byte is recognized only well enough to fail cleanly as unsupported,
// since no v1 producer exists in this codebase's lineage.
const machineVersion = 0x02

// legacyMachineVersion is the version byte of the deprecated v1 format,
// which this build never parses (§4.2).
const legacyMachineVersion = 0x01

// MaxDecompressedSize bounds how large a parsed machine's deflate layer may
// decompress to, defending ParseMachine against a compression bomb (§3, §6).
const MaxDecompressedSize = 8 * 1024 * 1024

// Machine is a validated, immutable bundle of states plus the per-machine
// padding and blocking budgets (§3). Construct one with NewMachine or
// ParseMachine; there are no exported mutators once built.
type Machine struct {
	States []*State `cbor:"states"`

	AllowedPaddingPackets uint64  `cbor:"allowed_padding_packets"`
	MaxPaddingFrac        float64 `cbor:"max_padding_frac"`
	AllowedBlockedMicros  uint64  `cbor:"allowed_blocked_microsec"`
	MaxBlockedFrac        float64 `cbor:"max_blocked_frac"`
}

// NewMachine validates states and the aggregate budget fractions and
// returns an immutable Machine (§4.2). On success, every state's fast-
// sample alias table has been precomputed.
func NewMachine(states []*State, allowedPaddingPackets uint64, maxPaddingFrac float64, allowedBlockedMicros uint64, maxBlockedFrac float64) (*Machine, error) {
	m := &Machine{
		States:                states,
		AllowedPaddingPackets: allowedPaddingPackets,
		MaxPaddingFrac:        maxPaddingFrac,
		AllowedBlockedMicros:  allowedBlockedMicros,
		MaxBlockedFrac:        maxBlockedFrac,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	for _, s := range m.States {
		s.buildFastSample()
	}
	return m, nil
}

// validate checks every machine-level invariant from §4.2.
func (m *Machine) validate() error {
	if len(m.States) < 1 {
		return &InvalidMachineError{Reason: "machine must have at least one state"}
	}
	if len(m.States) > StateMax {
		return &InvalidMachineError{Reason: "machine exceeds the maximum state count"}
	}
	if m.MaxPaddingFrac < 0 || m.MaxPaddingFrac > 1 {
		return &InvalidMachineError{Reason: "max_padding_frac must be in [0,1]"}
	}
	if m.MaxBlockedFrac < 0 || m.MaxBlockedFrac > 1 {
		return &InvalidMachineError{Reason: "max_blocked_frac must be in [0,1]"}
	}
	for i, s := range m.States {
		if err := s.validate(i, len(m.States)); err != nil {
			return err
		}
	}
	return nil
}

// Serialize renders the machine to its canonical string form: version byte
// || deflate(cbor(machine)), base32-encoded (§4.2, §6).
func (m *Machine) Serialize() (string, error) {
	raw, err := cbor.Marshal(m)
	if err != nil {
		return "", &InvalidMachineError{Reason: "cbor encode: " + err.Error()}
	}

	var compressed bytes.Buffer
	fw, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		return "", &InvalidMachineError{Reason: "deflate init: " + err.Error()}
	}
	if _, err := fw.Write(raw); err != nil {
		return "", &InvalidMachineError{Reason: "deflate write: " + err.Error()}
	}
	if err := fw.Close(); err != nil {
		return "", &InvalidMachineError{Reason: "deflate close: " + err.Error()}
	}

	out := make([]byte, 0, 1+compressed.Len())
	out = append(out, machineVersion)
	out = append(out, compressed.Bytes()...)

	return base32.StdEncoding.EncodeToString(out), nil
}

// ParseMachine recovers a Machine from its canonical string form, re-
// validating every invariant NewMachine would have checked (§4.2, §6).
func ParseMachine(s string) (*Machine, error) {
	raw, err := base32.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, &MachineParseError{Reason: ParseCorrupt, Err: err}
	}
	if len(raw) < 1 {
		return nil, &MachineParseError{Reason: ParseCorrupt}
	}

	version := raw[0]
	if version == legacyMachineVersion {
		return nil, &MachineParseError{Reason: ParseUnsupportedVersion}
	}
	if version != machineVersion {
		return nil, &MachineParseError{Reason: ParseUnsupportedVersion}
	}

	fr := flate.NewReader(bytes.NewReader(raw[1:]))
	defer fr.Close()

	limited := io.LimitReader(fr, MaxDecompressedSize+1)
	decompressed, err := io.ReadAll(limited)
	if err != nil {
		return nil, &MachineParseError{Reason: ParseCorrupt, Err: err}
	}
	if len(decompressed) > MaxDecompressedSize {
		return nil, &MachineParseError{Reason: ParseOversizedDecompressed}
	}

	var m Machine
	if err := cbor.Unmarshal(decompressed, &m); err != nil {
		return nil, &MachineParseError{Reason: ParseCorrupt, Err: err}
	}

	if err := m.validate(); err != nil {
		return nil, &MachineParseError{Reason: ParseInvalid, Err: err}
	}
	for _, s := range m.States {
		s.buildFastSample()
	}

	return &m, nil
}
