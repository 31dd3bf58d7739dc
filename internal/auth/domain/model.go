package domain

import userdomain "github.com/ranwip/pm-backend/internal/users/domain"

type RegisterRequest struct {
	Name       string
	Email      string
	Password   string
	Role       userdomain.Role
	Department userdomain.Department
	Skills     []string
	Timezone   string
}

// Session is what register and login hand back to the client.
type Session struct {
	AccessToken string           `json:"access_token"`
	User        *userdomain.User `json:"user"`
}
