package api

import "context"

// User — запись пользователя, как её отдаёт бэкенд.
type User struct {
	ID            int    `json:"id"`
	StudentNumber string `json:"student_number"`
	Role          string `json:"role"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	CreatedAt     string `json:"created_at"`
}

// RegisterRequest — поля регистрации. Обязательны номер студента и пароль.
type RegisterRequest struct {
	StudentNumber string `json:"student_number"`
	Password      string `json:"password"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
}

type loginRequest struct {
	StudentNumber string `json:"student_number"`
	Password      string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

type meResponse struct {
	User User `json:"user"`
}

// Login выполняет вход и возвращает выданный токен и пользователя.
func (c *Client) Login(ctx context.Context, studentNumber, password string) (string, User, error) {
	var resp authResponse
	err := c.post(ctx, "", "/auth/login", loginRequest{StudentNumber: studentNumber, Password: password}, &resp)
	if err != nil {
		return "", User{}, err
	}
	return resp.AccessToken, resp.User, nil
}

// Register создаёт пользователя и сразу возвращает токен и запись.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, User, error) {
	var resp authResponse
	if err := c.post(ctx, "", "/auth/register", req, &resp); err != nil {
		return "", User{}, err
	}
	return resp.AccessToken, resp.User, nil
}

// Me разрешает пользователя по токену.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var resp meResponse
	if err := c.get(ctx, token, "/auth/me", nil, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword меняет пароль текущего пользователя.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) error {
	return c.post(ctx, token, "/auth/change-password",
		changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}, nil)
}
