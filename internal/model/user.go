package model

import "github.com/uptrace/bun"

// User data model
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID   int64  `bun:",pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}
