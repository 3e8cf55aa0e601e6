package models

import (
	"time"
)

type Sticker struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	ImageURL  string    `db:"image_url"  json:"image_url"`
	Author    string    `db:"author"     json:"author"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
