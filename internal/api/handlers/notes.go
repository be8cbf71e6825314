package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/quillnotes/server/internal/models"
	"github.com/quillnotes/server/internal/repositories"
	"github.com/quillnotes/server/internal/utils"
)

type noteView struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	// The frontend orders notes by this field; the client-chosen note id
	// doubles as its timestamp.
	Timestamp string `json:"timestamp"`
}

// SaveNote godoc
// @Summary Save a new note
// @Description Create a note under a client-supplied id. An already-used id is acknowledged without overwriting.
// @Tags Notes
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /save_note [post]
func SaveNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Status:  "error",
			Message: "Method not allowed",
		})
		return
	}

	var input struct {
		ID      string `json:"id"`
		UserID  string `json:"user_id"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Status:  "error",
			Message: "Invalid input",
		})
		return
	}

	if input.ID == "" || input.UserID == "" || input.Content == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Status:  "error",
			Message: "Missing required fields",
		})
		return
	}

	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Status:  "error",
			Message: "Invalid user id",
		})
		return
	}

	// Notes may only reference registered users.
	if _, err := repositories.Users().FindByID(r.Context(), userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
				Status:  "error",
				Message: "Unknown user",
			})
			return
		}
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Status:  "error",
			Message: "Database query failed",
		})
		return
	}

	note := &models.Note{
		ID:      input.ID,
		UserID:  userID,
		Content: input.Content,
	}
	created, err := repositories.Notes().Create(r.Context(), note)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Status:  "error",
			Message: "Database insert failed",
		})
		return
	}
	if !created {
		utils.JSONResponse(w, http.StatusOK, utils.Payload{
			Status:  "info",
			Message: "Note with this ID already exists. No new note created.",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Status:  "success",
		Message: "Note saved successfully!",
	})
}

// UpdateNote godoc
// @Summary Update an existing note's content
// @Tags Notes
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /update_note [put]
func UpdateNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Status:  "error",
			Message: "Method not allowed",
		})
		return
	}

	var input struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Status:  "error",
			Message: "Invalid input",
		})
		return
	}

	if input.ID == "" || input.Content == "" {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Status:  "error",
			Message: "Missing required fields",
		})
		return
	}

	err := repositories.Notes().UpdateContent(r.Context(), input.ID, input.Content)
	if errors.Is(err, repositories.ErrNoteNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Status:  "error",
			Message: "Note not found",
		})
		return
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Status:  "error",
			Message: "Database update failed",
		})
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Status:  "success",
		Message: "Note updated successfully!",
	})
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Deleting a missing note is reported in the body, not as an HTTP error.
// @Tags Notes
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /delete_note [delete]
func DeleteNote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Status:  "error",
			Message: "Method not allowed",
		})
		return
	}

	var input struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Status:  "error",
			Message: "Invalid input",
		})
		return
	}

	if input.ID != "" {
		deleted, err := repositories.Notes().Delete(r.Context(), input.ID)
		if err != nil {
			utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
				Status:  "error",
				Message: "Database delete failed",
			})
			return
		}
		if deleted {
			utils.JSONResponse(w, http.StatusOK, utils.Payload{
				Status:  "success",
				Message: "Note deleted successfully!",
			})
			return
		}
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Status:  "error",
		Message: "Note not found",
	})
}

// GetNotes godoc
// @Summary List a user's notes
// @Tags Notes
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {array} handlers.noteView
// @Router /get_notes/{user_id} [get]
func GetNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.JSONResponse(w, http.StatusMethodNotAllowed, utils.Payload{
			Status:  "error",
			Message: "Method not allowed",
		})
		return
	}

	userID, err := uuid.Parse(r.PathValue("user_id"))
	if err != nil {
		utils.JSONResponse(w, http.StatusBadRequest, utils.Payload{
			Status:  "error",
			Message: "Invalid user id",
		})
		return
	}

	notes, err := repositories.Notes().ListByUser(r.Context(), userID)
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Status:  "error",
			Message: "Database query failed",
		})
		return
	}

	out := make([]noteView, 0, len(notes))
	for _, n := range notes {
		out = append(out, noteView{ID: n.ID, Content: n.Content, Timestamp: n.ID})
	}
	utils.JSONBody(w, http.StatusOK, out)
}
