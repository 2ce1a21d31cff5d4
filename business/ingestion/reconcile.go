package ingestion

import (
	"youthPolicyHub/domain"
	"youthPolicyHub/pkg/logger"
)

// ReconcilePlan is the set of writes that turns the stored catalog into the snapshot.
type ReconcilePlan struct {
	Inserts []domain.Policy
	Updates []domain.Policy
	Deletes []string
}

func (p ReconcilePlan) Empty() bool {
	return len(p.Inserts) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

type ReconcileResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Deleted  int `json:"deleted"`
}

// planReconcile diffs the snapshot against the stored catalog. The k-th snapshot
// entry gets sort order k+1. Only entries whose content, regions or order changed
// are updated. Stored ids missing from the snapshot are deleted. A repeated id in
// the snapshot keeps its first occurrence.
func planReconcile(existing []domain.Policy, incoming []domain.Policy) ReconcilePlan {
	stored := make(map[string]domain.Policy, len(existing))
	for _, p := range existing {
		stored[p.ID] = p
	}

	var plan ReconcilePlan
	seen := make(map[string]struct{}, len(incoming))

	for i, in := range incoming {
		if _, dup := seen[in.ID]; dup {
			logger.Warn("Duplicate policy id in snapshot, keeping first", "policy_id", in.ID, "position", i+1)
			continue
		}
		seen[in.ID] = struct{}{}

		in.SortOrder = i + 1

		cur, ok := stored[in.ID]
		if !ok {
			in.SetRegions(in.RegionList())
			plan.Inserts = append(plan.Inserts, in)
			continue
		}
		delete(stored, in.ID)

		if cur.ApplyChanges(in) {
			plan.Updates = append(plan.Updates, cur)
		}
	}

	for _, p := range existing {
		if _, left := stored[p.ID]; left {
			plan.Deletes = append(plan.Deletes, p.ID)
		}
	}

	return plan
}
