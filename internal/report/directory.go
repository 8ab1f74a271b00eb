package report

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"golang.org/x/text/cases"
)

// Group is an administrator-defined cluster of facilities reported as a
// combined sub-total. Members are facility names in display order.
type Group struct {
	Name    string   `json:"name" mapstructure:"name"`
	Members []string `json:"members" mapstructure:"members"`
}

// Directory is the ordered list of groups. Order drives report order.
type Directory []Group

// WarningCode classifies configuration and data problems found while
// building a report. None of them stop the build.
type WarningCode string

const (
	WarnOverlappingMember WarningCode = "overlapping_member"
	WarnDuplicateMember   WarningCode = "duplicate_member"
	WarnUnknownMember     WarningCode = "unknown_member"
	WarnDuplicateGroup    WarningCode = "duplicate_group"
	WarnEmptyGroup        WarningCode = "empty_group"
	WarnDuplicateFacility WarningCode = "duplicate_facility_name"
	WarnDuplicateRecord   WarningCode = "duplicate_record"
)

// Warning describes one problem. Group and Name are set when relevant.
type Warning struct {
	Code    WarningCode `json:"code"`
	Group   string      `json:"group,omitempty"`
	Name    string      `json:"name,omitempty"`
	Message string      `json:"message"`
}

// NormalizeName folds case and collapses whitespace so that directory
// entries and facility records written by different people still join.
func NormalizeName(name string) string {
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}

// Hash identifies the directory contents; used in cache keys.
func (d Directory) Hash() string {
	var b strings.Builder
	for _, g := range d {
		b.WriteString(g.Name)
		b.WriteByte(0x1e)
		for _, m := range g.Members {
			b.WriteString(m)
			b.WriteByte(0x1f)
		}
		b.WriteByte('\n')
	}
	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Validate checks the directory against a facility list and returns every
// warning a report build would raise for it.
func (d Directory) Validate(facilities []domain.Facility) []Warning {
	_, _, warnings := d.resolve(facilities)
	return warnings
}

type resolvedGroup struct {
	name    string
	members []domain.Facility
}

func (g resolvedGroup) ids() []domain.FacilityID {
	ids := make([]domain.FacilityID, len(g.members))
	for i, m := range g.members {
		ids[i] = m.ID
	}
	return ids
}

// resolve maps every group member to a facility of the snapshot. A facility
// already claimed by an earlier group is left out of later groups. Members
// with no matching facility are dropped.
func (d Directory) resolve(facilities []domain.Facility) ([]resolvedGroup, map[domain.FacilityID]struct{}, []Warning) {
	var warnings []Warning

	byName := make(map[string]domain.Facility, len(facilities))
	for _, f := range facilities {
		key := NormalizeName(f.Name)
		if prev, ok := byName[key]; ok {
			warnings = append(warnings, Warning{
				Code:    WarnDuplicateFacility,
				Name:    f.Name,
				Message: fmt.Sprintf("facility %q (%s) has the same name as %s; only %s is grouped", f.Name, f.ID, prev.ID, prev.ID),
			})
			continue
		}
		byName[key] = f
	}

	claimedBy := make(map[domain.FacilityID]string)
	groupNames := make(map[string]struct{}, len(d))
	groups := make([]resolvedGroup, 0, len(d))

	for _, g := range d {
		groupKey := NormalizeName(g.Name)
		if _, ok := groupNames[groupKey]; ok {
			warnings = append(warnings, Warning{
				Code:    WarnDuplicateGroup,
				Group:   g.Name,
				Message: fmt.Sprintf("group %q is defined more than once", g.Name),
			})
		}
		groupNames[groupKey] = struct{}{}

		if len(g.Members) == 0 {
			warnings = append(warnings, Warning{
				Code:    WarnEmptyGroup,
				Group:   g.Name,
				Message: fmt.Sprintf("group %q has no members", g.Name),
			})
		}

		rg := resolvedGroup{name: g.Name}
		for _, member := range g.Members {
			f, ok := byName[NormalizeName(member)]
			if !ok {
				warnings = append(warnings, Warning{
					Code:    WarnUnknownMember,
					Group:   g.Name,
					Name:    member,
					Message: fmt.Sprintf("member %q of group %q matches no facility", member, g.Name),
				})
				continue
			}

			if owner, taken := claimedBy[f.ID]; taken {
				code, msg := WarnOverlappingMember, fmt.Sprintf("facility %q is already counted in group %q", member, owner)
				if owner == g.Name {
					code, msg = WarnDuplicateMember, fmt.Sprintf("facility %q is listed twice in group %q", member, g.Name)
				}
				warnings = append(warnings, Warning{Code: code, Group: g.Name, Name: member, Message: msg})
				continue
			}

			claimedBy[f.ID] = g.Name
			rg.members = append(rg.members, f)
		}
		groups = append(groups, rg)
	}

	covered := make(map[domain.FacilityID]struct{}, len(claimedBy))
	for id := range claimedBy {
		covered[id] = struct{}{}
	}
	return groups, covered, warnings
}
