package candb

import "errors"

// ErrStructural is the sentinel wrapped by every error returned from an
// add operation rejected because of a uniqueness, ownership, multiplexer,
// or layout invariant.
var ErrStructural = errors.New("structural error")

// ErrDomain is the sentinel wrapped by every error returned for an
// invalid raw or engineering value.
var ErrDomain = errors.New("domain error")
