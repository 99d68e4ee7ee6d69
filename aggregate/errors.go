package aggregate

import "errors"

// ErrPlayerNotFound is returned when the upstream has no profile for the
// requested id. Missing and private profiles are indistinguishable.
var ErrPlayerNotFound = errors.New("player not found or profile is private")

// UpstreamError reports a failed upstream call the aggregation cannot do
// without (profile, owned games, recently played).
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return "steam " + e.Op + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
