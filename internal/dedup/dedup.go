// Package dedup partitions bookmarks into groups sharing a normalized
// URL key. Groups are rebuilt on every scan and never persisted.
package dedup

import (
	"sort"

	"linkstash/internal/domain"
	"linkstash/internal/norm"
)

// Group is a non-owning view over bookmarks that share a normalized key.
// By construction a group has at least two members: the oldest record is
// kept, the rest are candidates for deletion, oldest to newest.
type Group struct {
	Key       string            `json:"key"`
	Kept      domain.Bookmark   `json:"kept"`
	Removable []domain.Bookmark `json:"removable"`
}

// Size returns the total number of members, kept record included.
func (g Group) Size() int {
	return 1 + len(g.Removable)
}

// ValidateDeletion checks that deleting ids leaves at least one member
// in the group. Ids outside the group are ignored for the check; they
// cannot empty it. Returns domain.ErrGroupExhausted when the request
// would remove every member.
func (g Group) ValidateDeletion(ids []string) error {
	members := make(map[string]bool, g.Size())
	members[g.Kept.ID] = true
	for _, b := range g.Removable {
		members[b.ID] = true
	}

	hit := make(map[string]bool, len(ids))
	for _, id := range ids {
		if members[id] {
			hit[id] = true
		}
	}

	if len(hit) >= g.Size() {
		return domain.ErrGroupExhausted
	}
	return nil
}

// FindGroups computes the normalized key of every record, groups records
// by key preserving first-seen key order, and returns the groups with
// more than one member. Within a group members are ordered by CreatedAt
// ascending and the oldest is marked kept.
func FindGroups(records []domain.Bookmark) []Group {
	byKey := make(map[string][]domain.Bookmark)
	var order []string

	for _, r := range records {
		key := norm.Normalize(r.URL)
		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], r)
	}

	var groups []Group
	for _, key := range order {
		members := byKey[key]
		if len(members) < 2 {
			continue
		}

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		})

		groups = append(groups, Group{
			Key:       key,
			Kept:      members[0],
			Removable: members[1:],
		})
	}

	return groups
}
