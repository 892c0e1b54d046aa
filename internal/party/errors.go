package party

import "errors"

// ErrPartyNotFound reports that no live party exists for the given id
// or code. Store transport failures are returned as-is, so callers can
// tell "not found" from "store unreachable".
var ErrPartyNotFound = errors.New("party not found")
