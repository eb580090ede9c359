package domain

import "time"

type (
	Email     = string
	UserId    = int64
	BoardId   = string
	PostId    = string
	HistoryId = string
)

type User struct {
	Id        UserId    `json:"id"`
	Email     Email     `json:"email"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	PassHash  string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// FederatedProfile is the identity a third-party sign-in hands us.
type FederatedProfile struct {
	Email Email
	Name  string
	Image string
}
