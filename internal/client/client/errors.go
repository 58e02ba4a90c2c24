package client

import "github.com/dzikiwschod/clubapp/internal/common"

// ErrUnavailable is returned when the backend cannot be reached.
var ErrUnavailable = common.ErrNetworkUnavailable
