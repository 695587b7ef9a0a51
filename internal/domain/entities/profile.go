package entities

// Role is a moderation role attached to a profile.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Profile is the composite user value: the identity provider's user ID plus
// the profile table row. It is always built through NewProfile rather than
// merged ad hoc at call sites.
type Profile struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Role      Role   `json:"role"`
}

// NewProfile builds a Profile from an authenticated user ID and the stored
// profile fields. The identity provider owns the ID; everything else comes
// from the profiles table. An empty role defaults to RoleUser.
func NewProfile(userID, username, avatarURL, bio string, role Role) *Profile {
	if role == "" {
		role = RoleUser
	}
	return &Profile{
		ID:        userID,
		Username:  username,
		AvatarURL: avatarURL,
		Bio:       bio,
		Role:      role,
	}
}
