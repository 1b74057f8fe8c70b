package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"note-keeper/internal/auth"
	"note-keeper/internal/form"
	"note-keeper/internal/repository"
	"note-keeper/internal/service"
)

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users      service.UserService
	notes      service.NoteService
	sessions   *auth.SessionCodec
	cookie     CookieOptions
	indexEmail string
	logger     *logrus.Logger
}

func NewHandler(users service.UserService, notes service.NoteService, sessions *auth.SessionCodec, cookie CookieOptions, indexEmail string, logger *logrus.Logger) *Handler {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:      users,
		notes:      notes,
		sessions:   sessions,
		cookie:     cookie,
		indexEmail: indexEmail,
		logger:     logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) error {
	tmpl, err := LoadTemplates()
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := form.RegisterValidations(v); err != nil {
			return err
		}
	}

	router.Use(requestLogger(h.logger), h.loadSession())

	router.GET("/index", h.index)
	router.GET("/notes", h.listNotes)
	router.GET("/note/:id", h.getNote)
	router.GET("/notes/new", h.newNoteForm)
	router.POST("/notes/new", h.createNote)
	router.GET("/notes/edit/:id", h.editNoteForm)
	router.POST("/notes/edit/:id", h.updateNote)
	router.POST("/notes/delete/:id", h.deleteNote)
	router.GET("/register", h.register)
	router.POST("/register", h.register)
	return nil
}

// fail aborts with 404 for missing rows and 500 for everything else.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, repository.ErrNotFound) {
		status = http.StatusNotFound
	}
	_ = c.AbortWithError(status, err)
}

// pageData seeds template data with the session's display name.
func pageData(c *gin.Context, title string) gin.H {
	data := gin.H{"title": title}
	if s, ok := sessionFrom(c); ok {
		data["user"] = s.Name
	}
	return data
}

// noteID parses the :id path segment. Values that cannot name a row are
// reported as not found.
func noteID(c *gin.Context) (int64, error) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("note %q: %w", raw, repository.ErrNotFound)
	}
	return id, nil
}

// noteFields reads the title and body fields; both must be present.
func noteFields(c *gin.Context) (string, string, error) {
	title, ok := c.GetPostForm("title")
	if !ok {
		return "", "", errors.New("missing form field title")
	}
	text, ok := c.GetPostForm("noteText")
	if !ok {
		return "", "", errors.New("missing form field noteText")
	}
	return title, text, nil
}

func (h *Handler) index(c *gin.Context) {
	owner, err := h.users.GetByEmail(c.Request.Context(), h.indexEmail)
	if err != nil {
		h.fail(c, err)
		return
	}
	data := pageData(c, "Home")
	data["owner"] = owner
	c.HTML(http.StatusOK, "index.tmpl", data)
}

func (h *Handler) listNotes(c *gin.Context) {
	s, ok := sessionFrom(c)
	if !ok {
		// no login page exists; the redirect target answers 404
		c.Redirect(http.StatusFound, "/login")
		return
	}

	notes, err := h.notes.ListNotes(c.Request.Context(), s.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	data := pageData(c, "Notes")
	data["notes"] = notes
	c.HTML(http.StatusOK, "notes.tmpl", data)
}

func (h *Handler) getNote(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	note, err := h.notes.GetNote(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	data := pageData(c, note.Title)
	data["note"] = note
	c.HTML(http.StatusOK, "note.tmpl", data)
}

func (h *Handler) newNoteForm(c *gin.Context) {
	c.HTML(http.StatusOK, "new.tmpl", pageData(c, "New Note"))
}

func (h *Handler) createNote(c *gin.Context) {
	title, text, err := noteFields(c)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	var owner *int64
	if s, ok := sessionFrom(c); ok {
		owner = &s.UserID
	}
	if _, err := h.notes.CreateNote(c.Request.Context(), owner, title, text); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notes")
}

func (h *Handler) editNoteForm(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	note, err := h.notes.GetNote(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	data := pageData(c, "Edit Note")
	data["note"] = note
	c.HTML(http.StatusOK, "new.tmpl", data)
}

func (h *Handler) updateNote(c *gin.Context) {
	title, text, err := noteFields(c)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}
	id, err := noteID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.notes.UpdateNote(c.Request.Context(), id, title, text); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notes")
}

func (h *Handler) deleteNote(c *gin.Context) {
	id, err := noteID(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.notes.DeleteNote(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/notes")
}

func (h *Handler) register(c *gin.Context) {
	var f form.Register
	errs := form.FieldErrors{}

	if c.Request.Method == http.MethodPost {
		err := c.ShouldBind(&f)
		if err == nil {
			user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
				FirstName: f.FirstName,
				LastName:  f.LastName,
				Email:     f.Email,
				Password:  f.Password,
			})
			if err != nil {
				h.fail(c, err)
				return
			}
			if err := h.startSession(c, auth.Session{UserID: user.ID, Name: user.DisplayName()}); err != nil {
				h.fail(c, err)
				return
			}
			c.Redirect(http.StatusFound, "/notes")
			return
		}
		errs = form.Errors(err, f)
		f.Password = ""
	}

	data := pageData(c, "Register")
	data["form"] = f
	data["errors"] = errs
	c.HTML(http.StatusOK, "register.tmpl", data)
}
