package repositories

import (
	"log"

	"github.com/quillnotes/server/internal/config"
	"github.com/quillnotes/server/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase() {
	dsn := config.Envs.DB_URL
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Surface unique-index violations as gorm.ErrDuplicatedKey.
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	// Run migrations
	err = db.AutoMigrate(
		&models.User{},
		&models.Note{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}
	DB = db
	log.Println("Successfully connected to database")
}

// Users returns a UserStore bound to the process database.
func Users() *UserStore { return NewUserStore(DB) }

// Notes returns a NoteStore bound to the process database.
func Notes() *NoteStore { return NewNoteStore(DB) }
