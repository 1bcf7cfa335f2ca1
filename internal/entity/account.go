package entity

import "strings"

const (
	MaxNameLength     = 64
	MaxPasswordLength = 256
)

type Account struct {
	Name     string
	Password string
}

func NewAccount(name, password string) *Account {
	return &Account{
		Name:     name,
		Password: password,
	}
}

// HasValidName reports whether the name fits the one-record-per-line store format.
func (that *Account) HasValidName() bool {
	return that.Name != "" && len(that.Name) <= MaxNameLength && !strings.ContainsAny(that.Name, ",\r\n")
}

// HasValidPassword reports whether the password stays on its record line. Commas are allowed.
func (that *Account) HasValidPassword() bool {
	return len(that.Password) <= MaxPasswordLength && !strings.ContainsAny(that.Password, "\r\n")
}
