package domain

import "time"

type Board struct {
	Id          BoardId   `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerId     UserId    `json:"-"`
	OwnerEmail  Email     `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}
