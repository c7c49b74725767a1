package relay

import "log/slog"

// Outcome classifies how a relay request ended.
type Outcome int

const (
	// OutcomeOK means the upstream returned completion content.
	OutcomeOK Outcome = iota

	// OutcomeEmptyInput means the request carried no usable message.
	OutcomeEmptyInput

	// OutcomeMissingCredential means no upstream API key is configured.
	OutcomeMissingCredential

	// OutcomeTransport means the upstream could not be reached or did not
	// answer in time.
	OutcomeTransport

	// OutcomeUpstreamError means the upstream answered with an error object.
	OutcomeUpstreamError

	// OutcomeUnexpected means the upstream answer had neither an error nor
	// any content.
	OutcomeUnexpected
)

var outcomeNames = [...]string{
	OutcomeOK:                "ok",
	OutcomeEmptyInput:        "empty_input",
	OutcomeMissingCredential: "missing_credential",
	OutcomeTransport:         "transport",
	OutcomeUpstreamError:     "upstream_error",
	OutcomeUnexpected:        "unexpected",
}

// Outcomes lists every outcome in declaration order.
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeOK,
		OutcomeEmptyInput,
		OutcomeMissingCredential,
		OutcomeTransport,
		OutcomeUpstreamError,
		OutcomeUnexpected,
	}
}

// String returns the metric label for the outcome.
func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "unknown"
	}
	return outcomeNames[o]
}

// Failed reports whether the reply carries an error message.
func (o Outcome) Failed() bool {
	return o != OutcomeOK
}

// logLevel is the level a finished request is logged at.
func (o Outcome) logLevel() slog.Level {
	switch o {
	case OutcomeOK, OutcomeEmptyInput:
		return slog.LevelInfo
	case OutcomeMissingCredential, OutcomeUpstreamError:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
