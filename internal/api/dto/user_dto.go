package dto

import "time"

// RegisterReq 注册请求体
type RegisterReq struct {
	Username          string `json:"username" binding:"required,min=4,max=20"`
	Password          string `json:"password" binding:"required,min=6,max=64"`
	Nickname          string `json:"nickname" binding:"max=50"`
	PreferredLanguage string `json:"preferred_language" binding:"omitempty,lowercase,len=2"`
}

// LoginReq 登录请求体
type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResp 登录响应
type LoginResp struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}

// UserDTO 用户信息响应
type UserDTO struct {
	ID                uint64    `json:"id"`
	Username          string    `json:"username"`
	Nickname          string    `json:"nickname"`
	PreferredLanguage string    `json:"preferred_language"`
	CreatedAt         time.Time `json:"created_at"`
}

// UpdateLanguageReq 修改偏好语言请求体，次条消息起生效
type UpdateLanguageReq struct {
	PreferredLanguage string `json:"preferred_language" binding:"required,lowercase,len=2"`
}
