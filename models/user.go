package models

import (
	"time"
)

type User struct {
	ID        string    `db:"id"         json:"id"`
	SlackID   string    `db:"slack_id"   json:"slack_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name"  json:"last_name"`
	RealName  string    `db:"real_name"  json:"real_name"`
	Timezone  string    `db:"timezone"   json:"timezone"`
	TeamID    *string   `db:"team_id"    json:"team_id,omitempty"`
	OviName   *string   `db:"ovi_name"   json:"-"`
	OviToken  *string   `db:"ovi_token"  json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName returns the friendliest name on record for the user.
func (u *User) DisplayName() string {
	switch {
	case u.RealName != "":
		return u.RealName
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.SlackID
	}
}
