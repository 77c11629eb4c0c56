package template

import "errors"

var (
	errEmptyLocation = errors.New("no location given")
	errNoFetcher     = errors.New("remote sources are not configured")
	errNotDirectory  = errors.New("not a directory")
)
