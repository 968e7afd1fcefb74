package forms

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/models"
)

const msgBadLogin = "Invalid username or password"

// UserForm edits an account. The password is not part of it.
type UserForm struct {
	base       `validate:"-"`
	Email      string `form:"email" validate:"required,email,max=128"`
	Name       string `form:"name" validate:"required,max=32"`
	IsAdmin    bool   `form:"is_admin"`
	ProjectIDs []uint `form:"projects"`

	// Choices are the selectable projects.
	Choices []models.Project `form:"-" validate:"-"`
	// RequireProjects makes the project selection mandatory.
	RequireProjects bool `form:"-" validate:"-"`

	badChoice bool
}

func (f *UserForm) Parse(v url.Values) {
	f.Email = trimmed(v, "email")
	f.Name = trimmed(v, "name")
	f.IsAdmin = checked(v, "is_admin")
	f.ProjectIDs = nil
	f.badChoice = false
	for _, raw := range v["projects"] {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || !f.isChoice(uint(id)) {
			f.badChoice = true
			continue
		}
		if !slices.Contains(f.ProjectIDs, uint(id)) {
			f.ProjectIDs = append(f.ProjectIDs, uint(id))
		}
	}
}

func (f *UserForm) isChoice(id uint) bool {
	for _, p := range f.Choices {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (f *UserForm) Validate() bool {
	f.check(f)
	f.checkProjects()
	return f.Valid()
}

func (f *UserForm) checkProjects() {
	switch {
	case f.badChoice:
		f.AddError("projects", msgChoice)
	case f.RequireProjects && len(f.ProjectIDs) == 0:
		f.AddError("projects", msgRequired)
	}
}

// Fill pre-populates the form from u and the projects u manages.
func (f *UserForm) Fill(u *models.User, managed []models.Project) {
	f.Email = u.Email
	f.Name = u.Name
	f.IsAdmin = u.IsAdmin
	f.ProjectIDs = f.ProjectIDs[:0]
	for _, p := range managed {
		f.ProjectIDs = append(f.ProjectIDs, p.ID)
	}
}

// Apply copies email, name and the admin flag onto u. Project membership is stored
// separately from ProjectIDs.
func (f *UserForm) Apply(u *models.User) {
	u.Email = f.Email
	u.Name = f.Name
	u.IsAdmin = f.IsAdmin
}

func (f *UserForm) Fields() []Field {
	admin := f.field("is_admin", "Admin", "checkbox", "y", false)
	admin.Checked = f.IsAdmin

	projects := f.field("projects", "Projects", "select", "", f.RequireProjects)
	projects.Multiple = true
	for _, p := range f.Choices {
		projects.Options = append(projects.Options, Option{
			Value:    fmt.Sprint(p.ID),
			Label:    p.Name,
			Selected: slices.Contains(f.ProjectIDs, p.ID),
		})
	}

	return []Field{
		f.field("email", "Email", "email", f.Email, true),
		f.field("name", "Name", "text", f.Name, true),
		admin,
		projects,
	}
}

// SignupForm creates an account, password included.
type SignupForm struct {
	UserForm
	Password string `form:"pwd" validate:"required,min=6,max=72"`
	Confirm  string `form:"confirm" validate:"eqfield=Password"`
}

func (f *SignupForm) Parse(v url.Values) {
	f.UserForm.Parse(v)
	f.Password = v.Get("pwd")
	f.Confirm = v.Get("confirm")
}

func (f *SignupForm) Validate() bool {
	f.check(f)
	f.checkProjects()
	return f.Valid()
}

func (f *SignupForm) Apply(u *models.User) error {
	f.UserForm.Apply(u)
	return u.SetPassword(f.Password)
}

func (f *SignupForm) Fields() []Field {
	return append(f.UserForm.Fields(),
		f.field("pwd", "Password", "password", "", true),
		f.field("confirm", "Confirm Password", "password", "", true),
	)
}

// UserFinder looks accounts up by email.
type UserFinder interface {
	FindByEmail(email string) (*models.User, error)
}

type SigninForm struct {
	base     `validate:"-"`
	Email    string `form:"email" validate:"required"`
	Password string `form:"pwd" validate:"required"`
	Remember bool   `form:"remember"`

	// User is set once Validate has accepted the credentials.
	User *models.User `form:"-" validate:"-"`

	users UserFinder
}

func NewSigninForm(users UserFinder) *SigninForm {
	return &SigninForm{users: users}
}

func (f *SigninForm) Parse(v url.Values) {
	f.Email = trimmed(v, "email")
	f.Password = v.Get("pwd")
	f.Remember = checked(v, "remember")
}

// Validate checks the fields and then the credentials. Rejected input yields
// errs.ErrInvalidCredentials with the messages recorded on the form; any other error comes
// from the user lookup.
func (f *SigninForm) Validate() error {
	f.User = nil
	if !f.check(f) {
		return errs.ErrInvalidCredentials
	}
	user, err := f.users.FindByEmail(f.Email)
	if err != nil {
		return err
	}
	if !user.CheckPassword(f.Password) {
		f.AddError("email", msgBadLogin)
		return errs.ErrInvalidCredentials
	}
	f.User = user
	return nil
}

func (f *SigninForm) Fields() []Field {
	remember := f.field("remember", "Remember me", "checkbox", "y", false)
	remember.Checked = f.Remember
	return []Field{
		f.field("email", "Email Address", "text", f.Email, true),
		f.field("pwd", "Password", "password", "", true),
		remember,
	}
}
