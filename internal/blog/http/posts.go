package http

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/webloom/blog/internal/blog/service"
	"github.com/webloom/blog/pkg/httpx"
	"github.com/webloom/blog/pkg/slogx"
)

// maxMultipartMemory bounds how much of a post's form data is held in memory
// before spilling to disk.
const maxMultipartMemory = 32 << 20

// PostsHandler serves the /v1/posts endpoints.
type PostsHandler struct {
	PostService *service.PostService
}

// HandleList godoc
//
//	@Summary		List posts
//	@Description	Returns the newest posts, most recent first. Public; no authentication required.
//	@Tags			Posts
//	@Produce		json
//	@Success		200	{array}		domain.Post
//	@Failure		500	{object}	ErrorResponse	"server_error"
//	@Router			/v1/posts [get].
func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	posts, err := h.PostService.List(ctx)
	if err != nil {
		log.Error("list posts failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, posts)
}

// HandleCreate godoc
//
//	@Summary		Create a post
//	@Description	Creates a post owned by the authenticated user. Content HTML is sanitized server-side.
//	@Description	Optional image and video files are uploaded to object storage and their URLs stored on the post.
//	@Tags			Posts
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			title	formData	string	true	"Post title"
//	@Param			content	formData	string	true	"Post content HTML"
//	@Param			image	formData	file	false	"Image attachment"
//	@Param			video	formData	file	false	"Video attachment"
//	@Success		200		{object}	domain.Post
//	@Failure		400		{object}	ErrorResponse	"invalid_request"
//	@Failure		401		{object}	ErrorResponse	"unauthorized"
//	@Failure		500		{object}	ErrorResponse	"server_error"
//	@Security		BearerAuth
//	@Router			/v1/posts [post].
func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	identity, ok := httpx.IdentityFromContext(ctx)
	if !ok {
		// Route misconfiguration; the gate always runs before this handler.
		errServerError.WriteError(w)
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")

	image, err := readFormFile(r, "image")
	if err != nil {
		errInvalidRequest.WriteError(w)
		return
	}
	video, err := readFormFile(r, "video")
	if err != nil {
		errInvalidRequest.WriteError(w)
		return
	}

	post, err := h.PostService.Create(ctx, identity.UserID, title, content, image, video)
	if err != nil {
		if errors.Is(err, service.ErrMissingTitle) {
			errInvalidRequest.WriteError(w)
			return
		}
		log.Error("create post failed", "err", err)
		errServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, post)
}

// readFormFile reads an optional multipart file into memory. A missing field
// is not an error; the upload is simply nil.
func readFormFile(r *http.Request, field string) (*service.Upload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return &service.Upload{Data: data, Filename: header.Filename}, nil
}
