package domain

import (
	"time"
)

// User представляет модель пользователя административной консоли
type User struct {
	ID             int        `json:"userID" db:"id"`
	UserName       string     `json:"userName" db:"user_name"`
	Email          string     `json:"email" db:"email"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	FullName       string     `json:"fullName" db:"full_name"`
	Status         bool       `json:"status" db:"status"`
	LastLoginAt    *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedDate    time.Time  `json:"createdDate" db:"created_at"`
	UpdatedAt      time.Time  `json:"-" db:"updated_at"`
}

// UserCreateRequest представляет данные для создания пользователя
type UserCreateRequest struct {
	UserName string `json:"userName" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required,max=100"`
	RoleIDs  []int  `json:"roleIDs,omitempty"`
}

// UserUpdateRequest представляет данные для обновления пользователя
type UserUpdateRequest struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=100"`
	Status   *bool   `json:"status,omitempty"`
}

// UserResponse представляет данные пользователя для API-ответов
type UserResponse struct {
	ID          int       `json:"userID"`
	UserName    string    `json:"userName"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	Status      bool      `json:"status"`
	Roles       []Role    `json:"roles,omitempty"`
	CreatedDate time.Time `json:"createdDate"`
}

// ToResponse преобразует User в UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		FullName:    u.FullName,
		Status:      u.Status,
		CreatedDate: u.CreatedDate,
	}
}

// LoginRequest представляет данные для входа пользователя
type LoginRequest struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse представляет ответ при успешном входе: пара токенов,
// данные пользователя и клиентские наборы разрешений
type LoginResponse struct {
	AccessToken     string       `json:"accessToken"`
	RefreshToken    string       `json:"refreshToken"`
	User            UserResponse `json:"user"`
	RolePermissions []string     `json:"rolePermissions"`
	MenuPermissions []string     `json:"menuPermissions"`
	ExpiresAt       time.Time    `json:"expiresAt"`
}

// RefreshTokenRequest представляет запрос на обновление токенов
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AssignRolesRequest - тело пакетного назначения либо отзыва ролей:
// массив целочисленных идентификаторов ролей
type AssignRolesRequest []int
