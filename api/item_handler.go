package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/forms"
	"github.com/rpupo63/research-project-pages/models"
	"github.com/rpupo63/research-project-pages/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxFormSize   = 32 << 20
	maxFormMemory = 8 << 20

	// pendingUploadURL stands in for the file link while the rest of the form is validated
	pendingUploadURL = "https://uploads.invalid/pending"
)

type itemHandler struct {
	responder Responder
	logger    zerolog.Logger
	access    access
	kinds     map[string]itemKind
	uploader  storage.Uploader
}

func newItemHandler(db database.Database, access access, sessions *auth.Manager, views *views, uploader storage.Uploader) itemHandler {
	logger := log.With().Str("handlerName", "itemHandler").Logger()

	return itemHandler{
		responder: NewResponder(logger, views, sessions),
		logger:    logger,
		access:    access,
		kinds:     newItemKinds(db),
		uploader:  uploader,
	}
}

// editItem creates (no id) or edits (?id=) a child item of a project
func (h itemHandler) editItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.access.project(r)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		itemType := chi.URLParam(r, "itemType")
		kind, ok := h.kinds[itemType]
		if !ok {
			h.responder.WriteError(w, r, errs.NewUnknownItemTypeError(itemType))
			return
		}

		if err := h.access.authorize(r, project); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		query := r.URL.Query()
		var item *boundItem
		if query.Has("id") {
			item, err = kind.Load(query.Get("id"), project)
		} else {
			item, err = kind.New(r, project)
		}
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find", kind.Caption(), err))
			return
		}
		if item == nil {
			h.responder.WriteError(w, r, errs.NewNotFoundError(kind.Caption()))
			return
		}

		if r.Method == http.MethodPost {
			file, err := h.bind(w, r, item.form)
			if err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			valid := item.form.Validate()
			if file != nil {
				if valid {
					if err := h.upload(r, project, itemType, item.form.(forms.Uploadable), file); err != nil {
						h.responder.WriteError(w, r, err)
						return
					}
					valid = item.form.Validate()
				} else {
					item.form.Parse(r.PostForm)
				}
			}
			if valid {
				if err := item.save(); err != nil {
					h.responder.WriteError(w, r, wrapDatabaseError("save", item.caption, err))
					return
				}
				h.responder.Flash(w, r, fmt.Sprintf("%s was successfully updated.", item.caption))
				h.responder.Redirect(w, r, item.next)
				return
			}
		}

		var sections []section
		if item.sections != nil {
			if sections, err = item.sections(); err != nil {
				h.responder.WriteError(w, r, wrapDatabaseError("find children of", item.caption, err))
				return
			}
		}

		data := viewData{
			"Title":     item.caption,
			"Name":      item.caption,
			"Project":   project,
			"Fields":    item.form.Fields(),
			"Sections":  sections,
			"CancelURL": item.next,
		}
		if id := item.item.PrimaryKey(); id != 0 {
			data["Item"] = item.item.String()
			data["DeleteURL"] = deleteItemURL(project.ShortName, itemType, id)
		}
		if up, ok := item.form.(forms.Uploadable); ok && h.uploader != nil {
			data["Multipart"] = true
			data["UploadField"] = up.UploadField()
		}
		h.responder.Render(w, r, http.StatusOK, "edit_item.html", data)
	}
}

// deleteItem asks for confirmation and deletes once ?confirmed= is set
func (h itemHandler) deleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.access.project(r)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		if err := h.access.authorize(r, project); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		query := r.URL.Query()
		if !query.Has("id") {
			h.responder.WriteError(w, r, errs.NewNotFoundError("item"))
			return
		}

		itemType := chi.URLParam(r, "itemType")
		kind, ok := h.kinds[itemType]
		if !ok {
			h.responder.WriteError(w, r, errs.NewUnknownItemTypeError(itemType))
			return
		}

		item, err := kind.Load(query.Get("id"), project)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find", kind.Caption(), err))
			return
		}
		if item == nil {
			h.responder.WriteError(w, r, errs.NewNotFoundError(kind.Caption()))
			return
		}

		if query.Get("confirmed") != "" {
			if err := item.remove(); err != nil {
				h.responder.WriteError(w, r, wrapDatabaseError("delete", item.caption, err))
				return
			}
			h.responder.Flash(w, r, fmt.Sprintf("%s was successfully deleted.", item.caption))
			h.responder.Redirect(w, r, item.next)
			return
		}

		h.responder.Render(w, r, http.StatusOK, "delete_item.html", viewData{
			"Title":      "Delete " + item.caption,
			"Name":       item.caption,
			"Project":    project,
			"Item":       item.item.String(),
			"ConfirmURL": deleteItemURL(project.ShortName, itemType, item.item.PrimaryKey()) + "&confirmed=1",
			"CancelURL":  item.next,
		})
	}
}

// bind parses the submitted form onto form. When the form accepts a file and one is attached,
// the file is returned and the form's URL holds a placeholder until upload replaces it.
func (h itemHandler) bind(w http.ResponseWriter, r *http.Request, form boundForm) (*multipart.FileHeader, error) {
	if err := parseBody(w, r); err != nil {
		return nil, err
	}
	form.Parse(r.PostForm)

	up, ok := form.(forms.Uploadable)
	if !ok || h.uploader == nil || r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File[up.UploadField()]
	if len(files) == 0 || files[0].Size == 0 {
		return nil, nil
	}
	up.SetUploadedURL(pendingUploadURL)
	return files[0], nil
}

// upload stores fh and points the form's URL at it.
func (h itemHandler) upload(r *http.Request, project *models.Project, itemType string, up forms.Uploadable, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return errs.NewMalformedPayloadError("file", err)
	}
	defer f.Close()

	key := storage.ObjectKey(project.ShortName, itemType, fh.Filename)
	link, err := h.uploader.Upload(r.Context(), key, f, fh.Header.Get("Content-Type"))
	if err != nil {
		return errs.NewInternalErrorWithCause("uploading "+fh.Filename, err)
	}
	h.logger.Info().Str("key", key).Str("project", project.ShortName).Msg("Uploaded file")
	up.SetUploadedURL(link)
	return nil
}

// parseBody reads an urlencoded or multipart form body into r.PostForm.
func parseBody(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errs.NewMaxBodySizeExceededError(maxFormSize)
	}
	return errs.NewMalformedPayloadError("form", err)
}
