package config

import "fmt"

// FaultKind selects a deliberately injected failure. Only the hidden
// --simulate-fault flag sets it.
type FaultKind string

const (
	FaultNone FaultKind = ""
	// FaultTcFail raises a generic failure inside a check step.
	FaultTcFail FaultKind = "tc-fail"
	// FaultTcInvalidOperation raises an invalid-operation failure.
	FaultTcInvalidOperation FaultKind = "tc-invop"
	// FaultTcArgumentOutOfRange raises an out-of-range failure.
	FaultTcArgumentOutOfRange FaultKind = "tc-aor"
	// FaultTcKeyNotFound raises a missing-key failure.
	FaultTcKeyNotFound FaultKind = "tc-knf"
	// FaultTcNullReference dereferences a nil value.
	FaultTcNullReference FaultKind = "tc-nr"
	// FaultTcCancelled behaves as if the check was cancelled; never recovered.
	FaultTcCancelled FaultKind = "tc-oc"
	// FaultParseFail makes every parse fail.
	FaultParseFail FaultKind = "parse-fail"
)

var faultKinds = []FaultKind{
	FaultTcFail, FaultTcInvalidOperation, FaultTcArgumentOutOfRange,
	FaultTcKeyNotFound, FaultTcNullReference, FaultTcCancelled, FaultParseFail,
}

func ParseFaultKind(s string) (FaultKind, error) {
	if s == "" {
		return FaultNone, nil
	}
	for _, k := range faultKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return FaultNone, fmt.Errorf("unknown fault kind %q", s)
}

// IsCheckFault reports faults that fire inside a type-check step.
func (k FaultKind) IsCheckFault() bool {
	return k != FaultNone && k != FaultParseFail
}
