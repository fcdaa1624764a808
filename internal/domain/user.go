package domain

// User is a registered shopper. Contact and address may be absent until
// the profile is completed; checkout requires at least one of them.
type User struct {
	ID           string `json:"_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Contact      string `json:"contact,omitempty"`
	Address      string `json:"address,omitempty"`
	PasswordHash string `json:"-"`
}

// ProfileComplete reports whether the user has filled in enough shipping
// details to place an order.
func (u *User) ProfileComplete() bool {
	if u == nil {
		return false
	}
	return u.Contact != "" || u.Address != ""
}
