package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/projyotish/internal/config"
	"github.com/projyotish/internal/db"
)

func main() {
	cfg := config.Load()

	username := flag.String("username", "admin", "admin user name")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()

	if *password == "" {
		log.Fatal("a password is required: pass -password or set ADMIN_PASSWORD")
	}

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("failed to initialize database: ", err)
	}
	defer db.Close()

	if err := db.SetPassword(*username, *password); err != nil {
		log.Fatal("failed to set admin password: ", err)
	}

	fmt.Printf("admin user %q is ready (database %s)\n", *username, cfg.DatabasePath)
}
