//
// Copyright (C) 2026 The mpstgo Authors. All rights reserved.
//
// mpstgo is licensed under the Apache License Version 2.0.
//

package projectable

import (
	"sort"

	"github.com/mpst-lang/mpstgo/errs"
)

// Check validates a mixed choice's branches for protocol, decided by role:
// every participant must either take part in all branches or none
// (InconsistentChoice), and the branches as a whole must satisfy the
// partition-projection property (NotProjectable).
func Check(protocol, role string, branches Branches) error {
	if err := checkConsistentParticipation(protocol, branches); err != nil {
		return err
	}
	if !CanProject(branches) {
		n := 0
		for _, b := range branches {
			n = len(b)
			break
		}
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		leaderSet, _ := allActionsInPartition(indices, branches, newFirstCache())
		leaders := make([]string, 0, len(leaderSet))
		for r := range leaderSet {
			leaders = append(leaders, r)
		}
		sort.Strings(leaders)
		return &errs.NotProjectable{
			Protocol: protocol,
			Role:     role,
			Leaders:  leaders,
			Detail:   "no admissible partition of branches satisfies the projection property",
		}
	}
	return nil
}

func checkConsistentParticipation(protocol string, branches Branches) error {
	fc := newFirstCache()
	for role, blist := range branches {
		var active, inactive bool
		for _, b := range blist {
			fa := fc.first(b)
			if len(fa) == 0 {
				inactive = true
			} else {
				active = true
			}
			if active && inactive {
				return &errs.InconsistentChoice{
					Protocol: protocol,
					Role:     role,
					Detail:   "role does not participate in all branches of the choice",
				}
			}
		}
	}
	return nil
}
