package models

// Operator is a back-office user allowed to call the REST surface.
type Operator struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
