package adminControllers

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/vendora/marketplace-api/models"
)

// SeedAdmin creates the bootstrap admin account from the environment if no
// account with that email exists yet. A no-op when the credentials are unset.
func SeedAdmin(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := models.User{
		Email:      email,
		Role:       models.RoleAdmin,
		FirstName:  "Admin",
		LastName:   "User",
		IsApproved: true,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("seeded admin account")
	return nil
}
