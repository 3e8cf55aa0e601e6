package models

import (
	"time"
)

type Team struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type Sprint struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	TeamID    string    `db:"team_id"    json:"team_id"`
	Running   bool      `db:"running"    json:"running"`
	StartDate time.Time `db:"start_date" json:"start_date"`
}

type RetroItem struct {
	ID        string    `db:"id"         json:"id"`
	SprintID  string    `db:"sprint_id"  json:"sprint_id"`
	AuthorID  string    `db:"author_id"  json:"author_id"`
	Author    string    `db:"author"     json:"author"`
	Text      string    `db:"text"       json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
