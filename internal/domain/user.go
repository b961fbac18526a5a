package domain

// User is the upstream account record. UID is the authentication subject
// carried in the id token; ID is the numeric key other records reference.
type User struct {
	ID            int    `json:"id"`
	UID           string `json:"uid"`
	Name          string `json:"name"`
	IconPath      string `json:"icon_path"`
	RequestCount  int    `json:"request_count"`
	LastResetDate string `json:"last_reset_date"`
	LastLoginTime string `json:"last_login_time"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// CreateUserParams is the field set required to create a user record.
type CreateUserParams struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	IconPath string `json:"icon_path,omitempty"`
}

// UserPatch is a partial update for a user; nil fields are left unchanged.
type UserPatch struct {
	Name          *string `json:"name,omitempty"`
	IconPath      *string `json:"icon_path,omitempty"`
	RequestCount  *int    `json:"request_count,omitempty"`
	LastResetDate *string `json:"last_reset_date,omitempty"`
	LastLoginTime *string `json:"last_login_time,omitempty"`
}

// IsZero reports whether the patch carries no fields at all.
func (p UserPatch) IsZero() bool {
	return p.Name == nil && p.IconPath == nil && p.RequestCount == nil &&
		p.LastResetDate == nil && p.LastLoginTime == nil
}
