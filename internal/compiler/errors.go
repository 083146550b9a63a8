package compiler

import "fmt"

// ErrMutationNotSupported is returned when the document's operation is a
// mutation or subscription — only read (query) operations compile.
type ErrMutationNotSupported struct {
	OperationName string
}

func (e *ErrMutationNotSupported) Error() string {
	return fmt.Sprintf("compiler: operation %q is not a query; mutation/subscription compilation is out of scope", e.OperationName)
}

// ErrNoRootField is returned when the operation's selection set contains no
// field matching the requested root field name.
type ErrNoRootField struct {
	RootFieldName string
}

func (e *ErrNoRootField) Error() string {
	return fmt.Sprintf("compiler: root field %q not found in operation", e.RootFieldName)
}
