package memutils

// Validatable is implemented by structures that can check their own consistency. Under the
// debug_mem_utils build tag, DebugValidate panics when Validate fails.
type Validatable interface {
	Validate() error
}
