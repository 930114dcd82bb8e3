package gene

import "fmt"

// Role classifies a node gene. Input and Output nodes are fixed at genome
// construction and never removed; Hidden nodes come and go through mutation.
type Role uint8

const (
	RoleInput Role = iota + 1
	RoleOutput
	RoleHidden
)

func (r Role) String() string {
	switch r {
	case RoleInput:
		return "input"
	case RoleOutput:
		return "output"
	case RoleHidden:
		return "hidden"
	default:
		return fmt.Sprintf("role(%d)", uint8(r))
	}
}

// ParseRole is the inverse of Role.String, used when decoding records.
func ParseRole(s string) (Role, error) {
	switch s {
	case "input":
		return RoleInput, nil
	case "output":
		return RoleOutput, nil
	case "hidden":
		return RoleHidden, nil
	default:
		return 0, fmt.Errorf("unknown node role: %q", s)
	}
}

// Node is a node gene. It is immutable once created.
type Node struct {
	ID   ID
	Role Role
}

func NewNode(id ID, role Role) Node {
	return Node{ID: id, Role: role}
}
