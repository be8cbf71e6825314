package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/quillnotes/server/internal/api/middleware"
	"github.com/quillnotes/server/internal/repositories"
	"github.com/quillnotes/server/internal/utils"
)

// GetUsername godoc
// @Summary Resolve the calling user's name and id
// @Tags Session
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /get_username [get]
func GetUsername(w http.ResponseWriter, r *http.Request) {
	idStr, ok := middleware.SessionUserID(r)
	if !ok {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Status:  "error",
			Message: "User not logged in",
		})
		return
	}

	userID, err := uuid.Parse(idStr)
	if err != nil {
		utils.JSONResponse(w, http.StatusUnauthorized, utils.Payload{
			Status:  "error",
			Message: "User not logged in",
		})
		return
	}

	// The token can outlive the account it was issued for.
	user, err := repositories.Users().FindByID(r.Context(), userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		utils.JSONResponse(w, http.StatusNotFound, utils.Payload{
			Status:  "error",
			Message: "User not found",
		})
		return
	}
	if err != nil {
		utils.JSONResponse(w, http.StatusInternalServerError, utils.Payload{
			Status:  "error",
			Message: "Database query failed",
		})
		return
	}

	utils.JSONBody(w, http.StatusOK, map[string]string{
		"username": user.Username,
		"user_id":  user.ID.String(),
	})
}
