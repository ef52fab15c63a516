package db

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:user-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(Models()...); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	previous := DB
	DB = gdb
	t.Cleanup(func() {
		DB = previous
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestEnsureUserCreatesOnce(t *testing.T) {
	gdb := setupUserTestDB(t)

	if err := EnsureUser("admin", "first"); err != nil {
		t.Fatalf("ensure user failed: %v", err)
	}
	if err := EnsureUser("admin", "second"); err != nil {
		t.Fatalf("ensure user failed: %v", err)
	}

	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected a single user, got %d", count)
	}
	if _, err := Authenticate(gdb, "admin", "first"); err != nil {
		t.Fatalf("expected original password to be kept: %v", err)
	}
}

func TestEnsureUserSkipsEmptyCredentials(t *testing.T) {
	gdb := setupUserTestDB(t)

	if err := EnsureUser("", "secret"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var count int64
	gdb.Model(&User{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected no user to be created, got %d", count)
	}
}

func TestSetPasswordResetsExistingUser(t *testing.T) {
	gdb := setupUserTestDB(t)

	if err := SetPassword("admin", "old"); err != nil {
		t.Fatalf("set password failed: %v", err)
	}
	if err := SetPassword("admin", "new"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}

	if _, err := Authenticate(gdb, "admin", "old"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password to be rejected, got %v", err)
	}
	user, err := Authenticate(gdb, " admin ", "new")
	if err != nil {
		t.Fatalf("expected new password to work: %v", err)
	}
	if user.Username != "admin" {
		t.Fatalf("unexpected user %q", user.Username)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	gdb := setupUserTestDB(t)

	if _, err := Authenticate(gdb, "ghost", "secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestInitCreatesParentDirectory(t *testing.T) {
	previous := DB
	t.Cleanup(func() {
		Close()
		DB = previous
	})

	path := filepath.Join(t.TempDir(), "nested", "site.db")
	if err := Init(path); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !DB.Migrator().HasTable(&LeadEvent{}) {
		t.Fatal("expected lead tables to be migrated")
	}
}
