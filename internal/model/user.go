package model

// User is the signed-in identity exposed by the auth provider.
type User struct {
	ID        string `json:"uid"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"createdAt"` // unix millis
}
