package Models

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the sqlite database, migrates the schema and seeds the
// default unit and users. The handle is returned to the caller; nothing in
// this package keeps a global reference.
func Connect(path string) (*gorm.DB, error) {
	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// 1. Base entities with no dependencies
	if err := connection.AutoMigrate(
		&Unit{},
		&Employee{},
	); err != nil {
		return nil, err
	}

	// 2. Users reference units
	if err := connection.AutoMigrate(&User{}); err != nil {
		return nil, err
	}

	// 3. Tasks reference users, units and employees; history references tasks
	if err := connection.AutoMigrate(
		&Task{},
		&TaskHistory{},
	); err != nil {
		return nil, err
	}

	if err := seedDefaults(connection); err != nil {
		log.Printf("Error seeding defaults: %v", err)
	}

	return connection, nil
}

// seedDefaults upserts the default unit plus one manager and one operator so
// a fresh database is immediately usable. Existing rows are left alone.
func seedDefaults(db *gorm.DB) error {
	var unit Unit
	if err := db.Where(Unit{Code: "U001"}).
		Attrs(Unit{Name: "Agência Central"}).
		FirstOrCreate(&unit).Error; err != nil {
		return err
	}

	password, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seedUsers := []User{
		{Name: "Alice Gestora", Email: "admin@banco.com", Role: RoleAdmin, UnitID: unit.ID, Password: password},
		{Name: "Bob Operador", Email: "operador@banco.com", Role: RoleOperator, UnitID: unit.ID, Password: password},
	}
	for _, seed := range seedUsers {
		var user User
		if err := db.Where(User{Email: seed.Email}).
			Attrs(seed).
			FirstOrCreate(&user).Error; err != nil {
			return err
		}
		// Role drift from older seeds is corrected on startup
		if user.Role != seed.Role {
			if err := db.Model(&user).Update("role", seed.Role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
