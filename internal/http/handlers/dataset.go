package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/modelyard/modelyard-backend/internal/gateway"
	"github.com/modelyard/modelyard-backend/internal/http/response"
	"github.com/modelyard/modelyard-backend/internal/platform/apierr"
	"github.com/modelyard/modelyard-backend/internal/services"
)

type DatasetHandler struct {
	datasetService services.DatasetService
}

func NewDatasetHandler(datasetService services.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// POST /datasets
func (dh *DatasetHandler) Create(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	var input services.CreateDatasetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, apierr.Validationf("body", "invalid json: %s", err.Error()))
		return
	}
	created, err := dh.datasetService.Create(c.Request.Context(), id, input)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"dataset": created})
}

// POST /datasets/upload (multipart/form-data, field "files")
func (dh *DatasetHandler) Upload(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		response.RespondError(c, apierr.Validationf("files", "multipart form required"))
		return
	}
	fhs := form.File["files"]
	if len(fhs) == 0 {
		response.RespondError(c, apierr.Validationf("files", "at least one file required"))
		return
	}

	uploads := make([]services.ArtifactUpload, 0, len(fhs))
	for _, fh := range fhs {
		f, err := fh.Open()
		if err != nil {
			response.RespondError(c, apierr.Validationf("files", "open %q failed: %s", fh.Filename, err.Error()))
			return
		}
		defer f.Close()
		uploads = append(uploads, services.ArtifactUpload{
			FileName:  fh.Filename,
			SizeBytes: fh.Size,
			File:      f,
		})
	}

	created, err := dh.datasetService.CreateFromUploads(c.Request.Context(), id, uploads)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"datasets": created})
}

// PATCH /datasets/:id
func (dh *DatasetHandler) Update(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	datasetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Validationf("id", "must be a uuid"))
		return
	}
	var patch gateway.DatasetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.RespondError(c, apierr.Validationf("body", "invalid json: %s", err.Error()))
		return
	}
	updated, err := dh.datasetService.Update(c.Request.Context(), id, datasetID, patch)
	if err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dataset": updated})
}
