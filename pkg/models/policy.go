package models

// Policy selects the ordering applied to candidate tasks before packing.
type Policy string

const (
	// PolicyRoundRobin orders by a composite of priority and deadline pressure.
	PolicyRoundRobin Policy = "round_robin"
	// PolicyFCFS orders by creation time, oldest first.
	PolicyFCFS Policy = "fcfs"
	// PolicySJF orders by duration, shortest first.
	PolicySJF Policy = "sjf"
	// PolicyLJF orders by duration, longest first.
	PolicyLJF Policy = "ljf"
	// PolicyPriority orders by priority, highest first.
	PolicyPriority Policy = "priority"
)

// Valid returns true if the policy is a known value.
func (p Policy) Valid() bool {
	switch p {
	case PolicyRoundRobin, PolicyFCFS, PolicySJF, PolicyLJF, PolicyPriority:
		return true
	default:
		return false
	}
}

// ParsePolicy maps a policy name to a Policy, falling back to round_robin
// for empty or unknown names.
func ParsePolicy(name string) Policy {
	p := Policy(name)
	if !p.Valid() {
		return PolicyRoundRobin
	}
	return p
}
