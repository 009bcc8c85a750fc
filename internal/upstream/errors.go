package upstream

import "errors"

var (
	ErrGameNotFound        = errors.New("no play-by-play feed for this game")
	ErrUpstreamUnavailable = errors.New("live data feed unavailable")
	ErrMalformedFeed       = errors.New("malformed live data feed")
)
