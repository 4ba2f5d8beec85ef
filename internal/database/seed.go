// internal/database/seed.go
package database

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/vms-backend/internal/config"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/utils"
)

const defaultAdminPassword = "admin!@#"

// credentialsOut receives a generated admin password. It is kept out of the
// structured log.
var credentialsOut io.Writer = os.Stderr

// SeedInitialData creates the administrator account when it does not exist yet.
func SeedInitialData(db *gorm.DB, cfg *config.Config) error {
	logrus.Info("Seeding initial data...")

	username := strings.ToLower(cfg.Admin.Username)

	var existing models.Account
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		logrus.Info("Initial data seeding completed")
		return nil
	}
	if !IsNotFound(err) {
		return fmt.Errorf("failed to look up admin account: %w", err)
	}

	password := cfg.Admin.Password
	generated := false
	if password == "" {
		if cfg.Environment == "production" {
			password, err = utils.GenerateRandomString(16)
			if err != nil {
				return fmt.Errorf("failed to generate admin password: %w", err)
			}
			generated = true
		} else {
			password = defaultAdminPassword
		}
	}

	admin := &models.Account{
		Username:    username,
		Name:        cfg.Admin.Name,
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := admin.SetPassword(password); err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}

	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"username":           username,
		"generated_password": generated,
	}).Info("Default admin account created successfully")
	if generated {
		fmt.Fprintf(credentialsOut, "Generated password for admin account %q: %s\n", username, password)
	}

	logrus.Info("Initial data seeding completed")
	return nil
}
