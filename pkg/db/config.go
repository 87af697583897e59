package db

import (
	"fmt"
	"os"
)

func GetMySQLDSN() string {
	if dsn := os.Getenv("MYSQL_DSN"); dsn != "" {
		return dsn
	}

	host := os.Getenv("MYSQL_HOST")
	if host == "" {
		host = "swipe-mysql"
	}

	user := os.Getenv("MYSQL_ROOT_USER")
	if user == "" {
		user = "root"
	}

	password := os.Getenv("MYSQL_ROOT_PASSWORD")
	if password == "" {
		password = "sample"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:3306)/rooms?parseTime=true", user, password, host)
}
