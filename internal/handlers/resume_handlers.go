package handlers

import (
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"preppulse/internal/models"
	"preppulse/internal/services"

	"github.com/labstack/echo/v4"
)

// MaxUploadSize bounds a resume upload.
const MaxUploadSize = 10 << 20

type ResumeHandlers struct {
	resumeService services.ResumeService
}

func NewResumeHandlers(resumeService services.ResumeService) *ResumeHandlers {
	return &ResumeHandlers{resumeService: resumeService}
}

type UploadResponse struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Message  string `json:"message"`
}

type LatestResumeResponse struct {
	Resume *services.ResumeDetail `json:"resume"`
}

type AnalyzeRequest struct {
	ResumeID *int64 `json:"resume_id"`
}

// UploadResume stores a resume and its extracted text.
//
//	@Summary	Upload a resume (pdf, doc, docx, txt)
//	@Tags		resumes
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"Resume file"
//	@Success	200		{object}	UploadResponse
//	@Failure	400		{object}	common.ErrorResponse
//	@Failure	413		{object}	common.ErrorResponse
//	@Router		/api/resume/upload [post]
func (h *ResumeHandlers) UploadResume(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file provided")
	}
	if fh.Size > MaxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File is too large. The limit is 10 MB.")
	}

	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read the uploaded file.")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read the uploaded file.")
	}
	if len(data) > MaxUploadSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "File is too large. The limit is 10 MB.")
	}

	resume, err := h.resumeService.Upload(c.Request().Context(), rc.Email, fh.Filename, data)
	if err != nil {
		return toHTTPError(err, "Resume not found")
	}

	return c.JSON(http.StatusOK, UploadResponse{
		ID:       resume.ID,
		Filename: resume.Filename,
		Content:  resume.FileContent,
		Message:  "Resume uploaded successfully",
	})
}

// LatestResume
//
//	@Summary	The caller's most recent resume, or null
//	@Tags		resumes
//	@Produce	json
//	@Success	200	{object}	LatestResumeResponse
//	@Router		/api/resume/latest [get]
func (h *ResumeHandlers) LatestResume(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	detail, err := h.resumeService.Latest(c.Request().Context(), rc.Email)
	if err != nil {
		return toHTTPError(err, "No resume found")
	}
	return c.JSON(http.StatusOK, LatestResumeResponse{Resume: detail})
}

// ListResumes
//
//	@Summary	List the caller's resumes
//	@Tags		resumes
//	@Produce	json
//	@Success	200	{object}	itemsResponse[models.ResumeSummary]
//	@Router		/api/resumes [get]
func (h *ResumeHandlers) ListResumes(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}
	resumes, err := h.resumeService.List(c.Request().Context(), rc.Email)
	if err != nil {
		return toHTTPError(err, "No resume found")
	}
	if resumes == nil {
		resumes = []*models.ResumeSummary{}
	}
	return c.JSON(http.StatusOK, itemsResponse[*models.ResumeSummary]{Items: resumes})
}

// AnalyzeResume runs the AI critique on a resume, the latest by default.
//
//	@Summary	Analyze a resume
//	@Tags		resumes
//	@Accept		json
//	@Produce	json
//	@Param		body	body		AnalyzeRequest	false	"Optional resume id"
//	@Success	200		{object}	services.AnalyzeResult
//	@Failure	404		{object}	common.ErrorResponse
//	@Failure	503		{object}	common.ErrorResponse
//	@Router		/api/resume/analyze [post]
func (h *ResumeHandlers) AnalyzeResume(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var req AnalyzeRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
		}
	}

	notFound := "No resume found"
	if req.ResumeID != nil {
		notFound = "Resume not found"
	}

	result, err := h.resumeService.Analyze(c.Request().Context(), rc.Email, req.ResumeID)
	if err != nil {
		return toHTTPError(err, notFound)
	}
	return c.JSON(http.StatusOK, result)
}

// ServeResumeFile streams a stored resume for inline preview. Without an id
// the latest resume is served.
//
//	@Summary	Download a resume file
//	@Tags		resumes
//	@Produce	application/octet-stream
//	@Param		id	path	int	false	"Resume ID"
//	@Success	200
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/resume/file/{id} [get]
func (h *ResumeHandlers) ServeResumeFile(c echo.Context) error {
	rc, err := identity(c)
	if err != nil {
		return err
	}

	var id *int64
	notFound := "No resume found"
	if c.Param("id") != "" {
		v, err := pathID(c, "id")
		if err != nil {
			return err
		}
		id = &v
		notFound = "Resume not found"
	}

	file, err := h.resumeService.OpenFile(c.Request().Context(), rc.Email, id)
	if err != nil {
		return toHTTPError(err, notFound)
	}
	defer func() {
		if cerr := file.Body.Close(); cerr != nil {
			log.Printf("WARN: closing resume stream: %v", cerr)
		}
	}()

	header := c.Response().Header()
	header.Set(echo.HeaderContentDisposition, mime.FormatMediaType("inline", map[string]string{"filename": file.Filename}))
	if file.Size > 0 {
		header.Set(echo.HeaderContentLength, strconv.FormatInt(file.Size, 10))
	}
	if err := c.Stream(http.StatusOK, file.ContentType, file.Body); err != nil {
		return fmt.Errorf("stream resume file: %w", err)
	}
	return nil
}
