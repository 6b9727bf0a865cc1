package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	ClerkID   string `json:"clerkId" gorm:"uniqueIndex;size:64"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

type SyncUserData struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

type AdminLoginData struct {
	Password string `json:"password" binding:"required"`
}
