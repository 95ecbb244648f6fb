package broadcast

import "errors"

var ErrHubClosed = errors.New("broadcast: hub is closed")
