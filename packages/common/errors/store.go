package errs

import "errors"

// Fault reported by the backing store.
// Code is the store's diagnostic code (SQLSTATE for postgres,
// PostgREST error code or HTTP status otherwise).
type Store struct {
	Code    string
	Message string
	// Row wasn't found. Set for "no rows" results, which are not faults of
	// the store itself but still can't be used by the caller.
	NotFound bool
}

func (e *Store) Error() string {
	if e.Code == "" {
		return "store error: " + e.Message
	}
	return "store error (code " + e.Code + "): " + e.Message
}

func NewStoreError(code string, message string) *Store {
	return &Store{Code: code, Message: message}
}

func NewStoreNotFound(message string) *Store {
	return &Store{Code: "PGRST116", Message: message, NotFound: true}
}

// Returns first *Store in err's chain.
func AsStore(err error) (*Store, bool) {
	var e *Store

	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}
