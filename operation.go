package fsbench

import (
	"fmt"
	"strings"
)

// Operation identifies one measured file system call.
type Operation int

const (
	// OpCreate creates and closes an empty file with a random name.
	OpCreate Operation = iota
	// OpAppend appends DefaultAppendSize bytes to the append target.
	OpAppend
	// OpDelete deletes the delete target.
	OpDelete
	// OpList lists the list directory.
	OpList
	// OpRename renames the rename source to the rename target.
	OpRename
	// OpGetStatus reads the status of the stat target.
	OpGetStatus
	// OpMkdirs creates a directory with a random name.
	OpMkdirs
)

var operationNames = [...]string{
	OpCreate:    "create",
	OpAppend:    "append",
	OpDelete:    "delete",
	OpList:      "list",
	OpRename:    "rename",
	OpGetStatus: "getStatus",
	OpMkdirs:    "mkdirs",
}

func (op Operation) String() string {
	if op < 0 || int(op) >= len(operationNames) {
		return fmt.Sprintf("Operation(%d)", int(op))
	}
	return operationNames[op]
}

// NeedsInvocationRepair reports whether the operation destroys its fixture,
// so that it must be repaired after every single call.
func (op Operation) NeedsInvocationRepair() bool {
	return op == OpDelete || op == OpRename
}

// Operations returns every measured operation in declaration order.
func Operations() []Operation {
	return []Operation{OpCreate, OpAppend, OpDelete, OpList, OpRename, OpGetStatus, OpMkdirs}
}

// ParseOperation maps a name as returned by String (case-insensitive) to an Operation.
func ParseOperation(name string) (Operation, error) {
	for i, n := range operationNames {
		if strings.EqualFold(n, name) {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", name)
}

// ParseOperations parses a comma-separated list. An empty list or "all"
// selects every operation.
func ParseOperations(list string) ([]Operation, error) {
	list = strings.TrimSpace(list)
	if list == "" || strings.EqualFold(list, "all") {
		return Operations(), nil
	}
	var ops []Operation
	for _, name := range strings.Split(list, ",") {
		op, err := ParseOperation(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}
