package domain

import "time"

// User is the core identity record. Email is the external identity key and
// must be unique across all users. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Address belongs to exactly one user. UserID is always derived from the
// authenticated caller, never from client input.
type Address struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Street     string `json:"rua"`
	Complement string `json:"complemento"`
	District   string `json:"bairro"`
	City       string `json:"cidade"`
	State      string `json:"estado"`
	PostalCode string `json:"cep"`
}

// Phone belongs to exactly one user.
type Phone struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Number string `json:"numero"`
	DDD    string `json:"ddd"`
}
