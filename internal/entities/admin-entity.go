package entities

import "time"

type Admin struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}
