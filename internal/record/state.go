package record

import "strings"

// Legacy schema rows encode the outcome as free text such as
// "Completed, Succeeded" or "Completed, Aborted". Classification walks an
// ordered keyword table: failure keywords are checked before success keywords
// so mixed strings like "Completed, aborted by user" resolve to Failed.
// Anything that matches neither list (queued, in-progress, plain "Completed")
// maps to Other.
var (
	failureKeywords = []string{
		"aborted",
		"abort",
		"cancelled",
		"canceled",
		"errored",
		"error",
		"failed",
		"rejected",
		"timedout",
		"timed out",
	}
	successKeywords = []string{
		"succeeded",
	}
)

// ClassifyStateText maps a free-text status string to a State.
func ClassifyStateText(s string) State {
	s = strings.ToLower(s)
	for _, kw := range failureKeywords {
		if strings.Contains(s, kw) {
			return StateFailed
		}
	}
	for _, kw := range successKeywords {
		if strings.Contains(s, kw) {
			return StateSucceeded
		}
	}
	return StateOther
}

// Modern schema state flag bits, matching slskd's TransferStates enum.
const (
	codeCompleted = 1 << 4
	codeSucceeded = 1 << 5
	codeCancelled = 1 << 6
	codeTimedOut  = 1 << 7
	codeErrored   = 1 << 8
	codeRejected  = 1 << 9
	codeAborted   = 1 << 10

	codeFailureMask = codeCancelled | codeTimedOut | codeErrored | codeRejected | codeAborted
)

// ClassifyStateCode maps a modern-schema integer state code to a State.
// The code is authoritative; the accompanying StateDescription column is
// advisory only and never consulted.
func ClassifyStateCode(code int) State {
	if code&codeFailureMask != 0 {
		return StateFailed
	}
	if code&codeSucceeded != 0 {
		return StateSucceeded
	}
	return StateOther
}
