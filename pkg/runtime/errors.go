package runtime

import "errors"

// ErrNilRoot is returned by Mount when the host root is missing.
// Caller misuse; never swallowed.
var ErrNilRoot = errors.New("lumen: mount root is nil")

// ErrAlreadyMounted is returned by Mount when the root already hosts a
// component tree. Unmount first.
var ErrAlreadyMounted = errors.New("lumen: root already has a mounted component")

// ErrNoInstance is the panic value when a hook is called outside an
// active component invocation. Hooks have no instance to attach state to
// at that point, so this is always a programming error at the call site.
var ErrNoInstance = errors.New("lumen: hook called outside component render")
