package giveaway

import (
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/tombola/tombola/config"
	"github.com/ellavondegurechaff/tombola/tombola/database/models"
)

type Kind string

const (
	KindRequiredRole Kind = "role"
	KindBonusRole    Kind = "bonus_role"
	KindMessages     Kind = "messages"
	KindLevel        Kind = "level"
	KindInvites      Kind = "invites"
	KindIgnoreRole   Kind = "ignore_role"
)

var Kinds = []Kind{KindRequiredRole, KindBonusRole, KindMessages, KindLevel, KindInvites, KindIgnoreRole}

var countLimits = map[Kind]int{
	KindMessages: 1_000_000,
	KindLevel:    1_000,
	KindInvites:  10_000,
}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown requirement %q", ErrInvalidRequirement, s)
}

func (k Kind) IsRole() bool {
	return k == KindRequiredRole || k == KindBonusRole || k == KindIgnoreRole
}

func (k Kind) Label() string {
	switch k {
	case KindRequiredRole:
		return "Required role"
	case KindBonusRole:
		return "Bonus role"
	case KindMessages:
		return "Minimum messages"
	case KindLevel:
		return "Minimum level"
	case KindInvites:
		return "Minimum invites"
	case KindIgnoreRole:
		return "Excluded role"
	}
	return string(k)
}

// Requirement is a single typed change to a giveaway's requirements.
// RoleID is used by role kinds, Value by count kinds and as the bonus
// increment for KindBonusRole.
type Requirement struct {
	Kind   Kind
	RoleID snowflake.ID
	Value  int
}

func (r Requirement) Validate() error {
	if r.Kind.IsRole() {
		if r.RoleID == 0 {
			return fmt.Errorf("%w: %s needs a role", ErrInvalidRequirement, r.Kind.Label())
		}
		// A zero bonus value means the default increment.
		if r.Kind == KindBonusRole && r.Value != 0 && (r.Value < 1 || r.Value > config.MaxBonusEntries) {
			return fmt.Errorf("%w: bonus entries must be between 1 and %d", ErrInvalidRequirement, config.MaxBonusEntries)
		}
		return nil
	}
	limit, ok := countLimits[r.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown requirement %q", ErrInvalidRequirement, r.Kind)
	}
	if r.Value < 1 || r.Value > limit {
		return fmt.Errorf("%w: %s must be between 1 and %d", ErrInvalidRequirement, strings.ToLower(r.Kind.Label()), limit)
	}
	return nil
}

// Requirements is the structured set of entry rules stored on a giveaway.
type Requirements struct {
	RequiredRoleID *snowflake.ID
	BonusRoleID    *snowflake.ID
	BonusEntries   int
	Messages       *int
	Level          *int
	Invites        *int
	IgnoreRoleID   *snowflake.ID
}

func RequirementsOf(g *models.Giveaway) Requirements {
	return Requirements{
		RequiredRoleID: g.RequiredRoleID,
		BonusRoleID:    g.BonusRoleID,
		BonusEntries:   g.BonusEntries,
		Messages:       g.RequiredMessages,
		Level:          g.RequiredLevel,
		Invites:        g.RequiredInvites,
		IgnoreRoleID:   g.IgnoreRoleID,
	}
}

func (r Requirements) ApplyTo(g *models.Giveaway) {
	g.RequiredRoleID = r.RequiredRoleID
	g.BonusRoleID = r.BonusRoleID
	g.BonusEntries = r.BonusEntries
	g.RequiredMessages = r.Messages
	g.RequiredLevel = r.Level
	g.RequiredInvites = r.Invites
	g.IgnoreRoleID = r.IgnoreRoleID
}

func (r Requirements) Has(kind Kind) bool {
	switch kind {
	case KindRequiredRole:
		return r.RequiredRoleID != nil
	case KindBonusRole:
		return r.BonusRoleID != nil
	case KindMessages:
		return r.Messages != nil
	case KindLevel:
		return r.Level != nil
	case KindInvites:
		return r.Invites != nil
	case KindIgnoreRole:
		return r.IgnoreRoleID != nil
	}
	return false
}

// Validate checks rules that span more than one field.
func (r Requirements) Validate() error {
	if r.RequiredRoleID != nil && r.IgnoreRoleID != nil && *r.RequiredRoleID == *r.IgnoreRoleID {
		return fmt.Errorf("%w: the required role cannot also be excluded", ErrInvalidRequirement)
	}
	if r.BonusRoleID != nil && r.IgnoreRoleID != nil && *r.BonusRoleID == *r.IgnoreRoleID {
		return fmt.Errorf("%w: the bonus role cannot also be excluded", ErrInvalidRequirement)
	}
	if r.BonusRoleID != nil && (r.BonusEntries < 1 || r.BonusEntries > config.MaxBonusEntries) {
		return fmt.Errorf("%w: bonus entries must be between 1 and %d", ErrInvalidRequirement, config.MaxBonusEntries)
	}
	return nil
}

// Add sets a requirement that is not set yet.
func (r *Requirements) Add(req Requirement) error {
	if r.Has(req.Kind) {
		return ErrRequirementExists
	}
	return r.set(req)
}

// Edit changes a requirement that is already set.
func (r *Requirements) Edit(req Requirement) error {
	if !r.Has(req.Kind) {
		return ErrRequirementMissing
	}
	return r.set(req)
}

func (r *Requirements) Remove(kind Kind) error {
	if !r.Has(kind) {
		return ErrRequirementMissing
	}
	switch kind {
	case KindRequiredRole:
		r.RequiredRoleID = nil
	case KindBonusRole:
		r.BonusRoleID = nil
		r.BonusEntries = config.DefaultBonusEntries
	case KindMessages:
		r.Messages = nil
	case KindLevel:
		r.Level = nil
	case KindInvites:
		r.Invites = nil
	case KindIgnoreRole:
		r.IgnoreRoleID = nil
	}
	return nil
}

func (r *Requirements) set(req Requirement) error {
	if err := req.Validate(); err != nil {
		return err
	}
	next := *r
	roleID := req.RoleID
	value := req.Value
	switch req.Kind {
	case KindRequiredRole:
		next.RequiredRoleID = &roleID
	case KindBonusRole:
		next.BonusRoleID = &roleID
		if value == 0 {
			value = config.DefaultBonusEntries
		}
		next.BonusEntries = value
	case KindMessages:
		next.Messages = &value
	case KindLevel:
		next.Level = &value
	case KindInvites:
		next.Invites = &value
	case KindIgnoreRole:
		next.IgnoreRoleID = &roleID
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*r = next
	return nil
}

// Lines renders the requirements for embeds, one rule per line.
func (r Requirements) Lines() []string {
	var lines []string
	if r.RequiredRoleID != nil {
		lines = append(lines, fmt.Sprintf("%s: <@&%s>", KindRequiredRole.Label(), *r.RequiredRoleID))
	}
	if r.Messages != nil {
		lines = append(lines, fmt.Sprintf("%s: **%d**", KindMessages.Label(), *r.Messages))
	}
	if r.Level != nil {
		lines = append(lines, fmt.Sprintf("%s: **%d**", KindLevel.Label(), *r.Level))
	}
	if r.Invites != nil {
		lines = append(lines, fmt.Sprintf("%s: **%d**", KindInvites.Label(), *r.Invites))
	}
	if r.IgnoreRoleID != nil {
		lines = append(lines, fmt.Sprintf("%s: <@&%s>", KindIgnoreRole.Label(), *r.IgnoreRoleID))
	}
	if r.BonusRoleID != nil {
		lines = append(lines, fmt.Sprintf("%s: <@&%s> (+%d entries)", KindBonusRole.Label(), *r.BonusRoleID, r.BonusEntries))
	}
	return lines
}
