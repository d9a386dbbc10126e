package policy

import "fmt"

// MalformedPolicyError reports a document that cannot be normalized into a
// PolicyDocument. Analysis of the offending policy stops; callers decide
// whether to continue with the rest of a batch.
type MalformedPolicyError struct {
	Reason string
}

func (e *MalformedPolicyError) Error() string {
	return fmt.Sprintf("malformed policy document: %s", e.Reason)
}

func malformed(format string, args ...any) *MalformedPolicyError {
	return &MalformedPolicyError{Reason: fmt.Sprintf(format, args...)}
}
