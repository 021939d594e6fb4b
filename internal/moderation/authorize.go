package moderation

import (
	"slices"

	"github.com/disgoorg/snowflake/v2"
)

// Tier is the privilege a command requires.
type Tier int

const (
	TierEveryone Tier = iota
	TierJuniorModerator
	TierModerator
)

// Decision is the result of an authorization check.
type Decision int

const (
	DecisionDenied Decision = iota
	DecisionAllowed
)

// RoleSet maps privilege tiers to guild roles.
type RoleSet struct {
	Moderator       snowflake.ID
	JuniorModerator snowflake.ID
}

// Authorize checks whether an actor holding actorRoles may run a command of the required tier.
// Tiers are matched by exact role membership; holding the moderator role does not imply
// the junior role.
func Authorize(actorRoles []snowflake.ID, required Tier, roles RoleSet) Decision {
	switch required {
	case TierEveryone:
		return DecisionAllowed
	case TierJuniorModerator:
		return decide(HasRole(actorRoles, roles.JuniorModerator))
	case TierModerator:
		return decide(HasRole(actorRoles, roles.Moderator))
	default:
		return DecisionDenied
	}
}

// HasRole reports whether role is set and present in roles.
func HasRole(roles []snowflake.ID, role snowflake.ID) bool {
	return role != 0 && slices.Contains(roles, role)
}

func decide(ok bool) Decision {
	if ok {
		return DecisionAllowed
	}

	return DecisionDenied
}
