package auth

import "time"

type LoginRequest struct {
	Username string `json:"username" minLength:"1"`
	Password string `json:"password" minLength:"1"`
}

type UserInfo struct {
	UserID     int64  `json:"user_id"`
	PersonID   int64  `json:"person_id"`
	EmployeeID *int64 `json:"employee_id,omitempty"`
	Username   string `json:"username"`
}

type LoginResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at" format:"date-time"`
	User       UserInfo  `json:"user"`
	ServerTime time.Time `json:"server_time" format:"date-time"`
}
