package analysis

import "errors"

// ErrInsufficientVoicedSignal indicates that no contour sample passed
// the confidence threshold. This is fatal to the whole analysis: no
// range statistics or voice type can be reported without signal.
var ErrInsufficientVoicedSignal = errors.New("no voiced segments detected above confidence threshold")
