package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quillnotes/server/internal/models"
	"gorm.io/gorm"
)

// NoteStore persists notes keyed by their client-supplied id.
type NoteStore struct {
	db *gorm.DB
}

func NewNoteStore(db *gorm.DB) *NoteStore {
	return &NoteStore{db: db}
}

// Create inserts the note unless its id is already taken. A taken id is
// not an error and not an overwrite: the call reports created=false and
// the existing note keeps its original content.
func (s *NoteStore) Create(ctx context.Context, note *models.Note) (created bool, err error) {
	var existing models.Note
	err = s.db.WithContext(ctx).Where("id = ?", note.ID).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check note id: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(note).Error; err != nil {
		return false, fmt.Errorf("create note: %w", err)
	}
	return true, nil
}

// UpdateContent replaces the content of an existing note.
func (s *NoteStore) UpdateContent(ctx context.Context, id, content string) error {
	res := s.db.WithContext(ctx).Model(&models.Note{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return fmt.Errorf("update note: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// Delete removes the note if present. Absence is a soft miss, not an error.
func (s *NoteStore) Delete(ctx context.Context, id string) (deleted bool, err error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Note{})
	if res.Error != nil {
		return false, fmt.Errorf("delete note: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByUser returns every note owned by userID, in no particular order.
func (s *NoteStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Note, error) {
	var notes []models.Note
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&notes).Error; err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}
