package bootstrap

import (
	"log"

	"anoa.com/librarydesk/internal/model"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Student{},
		&model.Book{},
		&model.Transaction{},
	)
}

// SeedAdminUser creates the default administrator account on first boot.
// The password is stored verbatim; the admin login path compares it by
// string equality rather than through bcrypt.
func SeedAdminUser(db *gorm.DB, username, password string) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("role = ?", model.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	admin := model.User{
		Username: username,
		Password: password,
		Role:     model.RoleAdmin,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Default admin user %q created", username)
	return nil
}
