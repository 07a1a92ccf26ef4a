package handlers

import (
	"net/http"

	"github.com/AnshRaj112/whisper-backend/internal/config"
	"github.com/AnshRaj112/whisper-backend/internal/services"
)

var cloudinaryService *services.CloudinaryService

func InitCloudinaryService(cfg *config.Config) error {
	service, err := services.NewCloudinaryService(
		cfg.CloudinaryName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)
	if err != nil {
		return err
	}
	cloudinaryService = service
	return nil
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// UploadFile uploads a profile picture to Cloudinary and returns its URL.
// The client submits the URL afterwards via the profile update endpoint.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		respondError(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	// Max 10MB
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse form: "+err.Error())
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	url, err := cloudinaryService.UploadFileFromHeader(r.Context(), fileHeader, "whisper/avatars")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	respondJSON(w, http.StatusOK, UploadResponse{
		Success: true,
		Message: "File uploaded successfully",
		URL:     url,
	})
}
