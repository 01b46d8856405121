package observable

import "errors"

// ErrReentrantReplace is the panic value raised when Replace is called while
// the same collection is still delivering a batch.
var ErrReentrantReplace = errors.New("replace called during event delivery")
