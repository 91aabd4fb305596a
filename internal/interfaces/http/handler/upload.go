package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/attachment"
	"github.com/pos/backend/internal/domain/shared"
)

// ProofUploader stores payment proofs
type ProofUploader interface {
	UploadPaymentProof(ctx context.Context, uploaderID uuid.UUID, in attachment.UploadInput) (*attachment.UploadResponse, error)
}

// UploadHandler serves /uploads
type UploadHandler struct {
	BaseHandler
	service ProofUploader
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(service ProofUploader) *UploadHandler {
	return &UploadHandler{service: service}
}

// UploadPaymentProof stores the multipart "file" field and returns the
// object key to put in a supplier payment's proof_image
// POST /uploads/payment-proofs
func (h *UploadHandler) UploadPaymentProof(c *gin.Context) {
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleError(c, fileError("File cannot exceed the upload limit"))
			return
		}
		h.HandleError(c, fileError("File is required"))
		return
	}
	if fileHeader.Size > attachment.MaxProofSize {
		h.HandleError(c, fileError("File cannot exceed 5 MB"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, attachment.MaxProofSize+1))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.service.UploadPaymentProof(c.Request.Context(), actorID, attachment.UploadInput{
		FileName:    fileHeader.Filename,
		Data:        data,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

func fileError(message string) error {
	verr := shared.NewValidationError()
	verr.Add("file", message)
	return verr
}
