package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials 表示用户名或密码不正确。
var ErrInvalidCredentials = errors.New("invalid credentials")

// User 定义了后台用户模型
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
}

// EnsureUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的用户。
func EnsureUser(username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Create(&User{Username: trimmedUser, Password: string(hashed)}).Error
	}

	return nil
}

// SetPassword 创建用户或重置已有用户的密码。
func SetPassword(username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	if trimmedUser == "" || password == "" {
		return errors.New("username and password are required")
	}
	if DB == nil {
		return errors.New("database not initialized")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var user User
	err = DB.Where("username = ?", trimmedUser).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return DB.Create(&User{Username: trimmedUser, Password: string(hashed)}).Error
	case err != nil:
		return err
	}
	return DB.Model(&user).Update("password", string(hashed)).Error
}

// Authenticate 校验用户名与密码，成功时返回用户。
func Authenticate(gdb *gorm.DB, username, password string) (*User, error) {
	if gdb == nil {
		return nil, errors.New("database not initialized")
	}

	var user User
	if err := gdb.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
