package models

// User is a web dashboard operator account. The panel and hub never
// authenticate; accounts exist only for the remote control surface.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
