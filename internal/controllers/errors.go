package controllers

import "errors"

// Run-level failures detected before any file is touched. They are
// distinct so an operator can tell "nothing to do" from "service
// unreachable".
var (
	ErrMissingAPIKey      = errors.New("no catalog API key configured")
	ErrCatalogUnreachable = errors.New("catalog service unreachable")
	ErrRunInProgress      = errors.New("a run for this profile is already in progress")
)
