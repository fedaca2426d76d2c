package bot

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// roleGranter implements interfaces.RoleGranter on the Discord session.
// Granting a role the member already holds is a no-op upstream, so the
// call is naturally idempotent.
type roleGranter struct {
	session *discordgo.Session
}

// NewRoleGranter creates a role granter backed by the given session.
func NewRoleGranter(session *discordgo.Session) *roleGranter {
	return &roleGranter{session: session}
}

// GrantRole adds the role to the guild member.
func (g *roleGranter) GrantRole(ctx context.Context, guildID, userID, roleID int64) error {
	err := g.session.GuildMemberRoleAdd(
		strconv.FormatInt(guildID, 10),
		strconv.FormatInt(userID, 10),
		strconv.FormatInt(roleID, 10),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to grant role %d to user %d: %w", roleID, userID, err)
	}
	return nil
}
