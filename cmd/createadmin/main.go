// Command createadmin bootstraps an administrator account, since the API
// refuses admin self-registration.
package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/config"
	"github.com/alexissactahay-commits/smart-collector-nahuala/internal/models"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	configFile := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		logrus.Fatal("createadmin: -email is required and the password must have at least 8 characters")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.WithError(err).Fatal("createadmin: load configuration")
	}
	if err := config.InitDB(cfg); err != nil {
		logrus.WithError(err).Fatal("createadmin: connect to database")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatal("createadmin: hash password")
	}

	user := models.User{
		Username: *username,
		Email:    models.NormalizeEmail(*email),
		Password: string(hash),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		logrus.WithError(err).Fatal("createadmin: create user")
	}
	logrus.WithField("user_id", user.ID).Info("Administrator created")
}
