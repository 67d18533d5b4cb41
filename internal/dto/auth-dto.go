package dto

// LoginDTO принимает секрет под ключом "secret" или "password".
type LoginDTO struct {
	Email    string `json:"email" validate:"required,custom_email"`
	Secret   string `json:"secret"`
	Password string `json:"password"`
}

func (d LoginDTO) Credential() string {
	if d.Secret != "" {
		return d.Secret
	}
	return d.Password
}

type AuthResponseDTO struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}
