package forms

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProjectForm(t *testing.T) {
	valid := url.Values{
		"name":       {"Sensors"},
		"short_name": {"sensors"},
		"short_desc": {"Sensor networks"},
		"desc":       {"# About"},
		"api_desc":   {"REST"},
	}

	t.Run("valid without github", func(t *testing.T) {
		f := &ProjectForm{}
		f.Parse(valid)
		require.True(t, f.Validate(), f.Errors)

		p := &models.Project{}
		f.Apply(p)
		assert.Equal(t, "sensors", p.ShortName)
		assert.Nil(t, p.GithubURL)
	})

	t.Run("github must be a url", func(t *testing.T) {
		v := cloneValues(valid)
		v.Set("github_url", "not a url")
		f := &ProjectForm{}
		f.Parse(v)
		assert.False(t, f.Validate())
		assert.Equal(t, "Invalid URL.", f.Error("github_url"))

		v.Set("github_url", "https://github.com/org/sensors")
		f.Parse(v)
		require.True(t, f.Validate())
		p := &models.Project{}
		f.Apply(p)
		assert.Equal(t, "https://github.com/org/sensors", p.GithubLink())
	})

	t.Run("slug and length", func(t *testing.T) {
		v := cloneValues(valid)
		v.Set("short_name", "Bad Slug")
		v.Set("name", "a name that is clearly longer than thirty two characters")
		f := &ProjectForm{}
		f.Parse(v)
		assert.False(t, f.Validate())
		assert.NotEmpty(t, f.Error("short_name"))
		assert.Equal(t, "Field cannot be longer than 32 characters.", f.Error("name"))
	})

	t.Run("required", func(t *testing.T) {
		f := &ProjectForm{}
		f.Parse(url.Values{})
		assert.False(t, f.Validate())
		assert.Equal(t, msgRequired, f.Error("name"))
		assert.Equal(t, msgRequired, f.Error("desc"))
		assert.Empty(t, f.Error("github_url"))
	})

	t.Run("fill round trip", func(t *testing.T) {
		gh := "https://github.com/x/y"
		f := &ProjectForm{}
		f.Fill(&models.Project{Name: "N", ShortName: "n", GithubURL: &gh})
		fields := f.Fields()
		require.Len(t, fields, 6)
		assert.Equal(t, "n", fields[1].Value)
		assert.Equal(t, gh, fields[5].Value)
	})
}

func TestPublicationForm(t *testing.T) {
	f := &PublicationForm{}
	f.Parse(url.Values{"title": {"T"}, "authors": {"A"}, "publisher": {"P"}, "date": {"2021-13-01"}})
	assert.False(t, f.Validate())
	assert.Equal(t, "Not a valid date value.", f.Error("date"))

	f.Parse(url.Values{"title": {"T"}, "authors": {"A"}, "publisher": {"P"}, "date": {"2021-03-04"}})
	require.True(t, f.Validate())
	p := &models.Publication{}
	f.Apply(p)
	assert.Equal(t, "2021-03-04", time.Time(p.Date).Format(dateLayout))

	g := &PublicationForm{}
	g.Fill(&models.Publication{Date: datatypes.Date(time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC))})
	assert.Equal(t, "2019-01-02", g.Date)
}

func TestApplicationFormURLs(t *testing.T) {
	f := &ApplicationForm{}
	f.Parse(url.Values{"name": {"App"}, "url": {"example"}, "img_url": {"ftp//x"}, "desc": {"d"}})
	assert.False(t, f.Validate())
	assert.Equal(t, "Invalid URL.", f.Error("url"))
	assert.Equal(t, "Invalid URL.", f.Error("img_url"))

	var up Uploadable = f
	assert.Equal(t, "image", up.UploadField())
	up.SetUploadedURL("https://cdn.example.org/app.png")
	f.URL = "https://example.org"
	assert.True(t, f.Validate())
}

func TestInterfaceFormMethod(t *testing.T) {
	v := url.Values{"method": {"patch"}, "format": {"/x"}, "desc": {"d"}, "returns": {"r"}, "example": {"e"}}
	f := &InterfaceForm{}
	f.Parse(v)
	assert.False(t, f.Validate())
	assert.Equal(t, msgChoice, f.Error("method"))

	v.Set("method", "post")
	f.Parse(v)
	require.True(t, f.Validate())
	api := &models.Interface{}
	f.Apply(api)
	assert.Equal(t, "POST", api.Method)

	fields := f.Fields()
	require.Len(t, fields[0].Options, len(models.Methods))
	assert.True(t, fields[0].Options[1].Selected)
}

func TestDownloadAndContactForms(t *testing.T) {
	d := &DownloadForm{}
	d.Parse(url.Values{"name": {"data"}})
	assert.False(t, d.Validate())
	assert.Equal(t, msgRequired, d.Error("url"))
	d.SetUploadedURL("https://bucket.example.org/data.zip")
	assert.True(t, d.Validate())

	c := &ContactForm{}
	c.Parse(url.Values{"name": {"Ann"}, "email": {"ann"}})
	assert.False(t, c.Validate())
	assert.Equal(t, "Invalid email address.", c.Error("email"))
}

func TestUserForm(t *testing.T) {
	choices := []models.Project{{ID: 1, Name: "One"}, {ID: 2, Name: "Two"}}

	t.Run("projects required for admin editors", func(t *testing.T) {
		f := &UserForm{Choices: choices, RequireProjects: true}
		f.Parse(url.Values{"email": {"u@example.org"}, "name": {"U"}})
		assert.False(t, f.Validate())
		assert.Equal(t, msgRequired, f.Error("projects"))
	})

	t.Run("projects optional otherwise", func(t *testing.T) {
		f := &UserForm{Choices: choices}
		f.Parse(url.Values{"email": {"u@example.org"}, "name": {"U"}})
		assert.True(t, f.Validate())
	})

	t.Run("unknown project rejected", func(t *testing.T) {
		f := &UserForm{Choices: choices, RequireProjects: true}
		f.Parse(url.Values{"email": {"u@example.org"}, "name": {"U"}, "projects": {"1", "7"}})
		assert.False(t, f.Validate())
		assert.Equal(t, msgChoice, f.Error("projects"))
	})

	t.Run("apply", func(t *testing.T) {
		f := &UserForm{Choices: choices, RequireProjects: true}
		f.Parse(url.Values{"email": {"u@example.org"}, "name": {"U"}, "is_admin": {"y"}, "projects": {"2", "1", "2"}})
		require.True(t, f.Validate(), f.Errors)
		assert.Equal(t, []uint{2, 1}, f.ProjectIDs)

		u := &models.User{}
		f.Apply(u)
		assert.True(t, u.IsAdmin)
		assert.Empty(t, u.Pwd)

		fields := f.Fields()
		assert.True(t, fields[2].Checked)
		assert.True(t, fields[3].Options[0].Selected)
	})
}

func TestSignupForm(t *testing.T) {
	base := url.Values{"email": {"new@example.org"}, "name": {"New"}, "projects": {"1"}}
	choices := []models.Project{{ID: 1, Name: "One"}}

	f := &SignupForm{UserForm: UserForm{Choices: choices, RequireProjects: true}}
	v := cloneValues(base)
	v.Set("pwd", "secret1")
	v.Set("confirm", "secret2")
	f.Parse(v)
	assert.False(t, f.Validate())
	assert.Equal(t, "Passwords must match.", f.Error("confirm"))

	v.Set("pwd", "abc")
	v.Set("confirm", "abc")
	f.Parse(v)
	assert.False(t, f.Validate())
	assert.Equal(t, "Field must be at least 6 characters long.", f.Error("pwd"))

	v.Set("pwd", "secret1")
	v.Set("confirm", "secret1")
	f.Parse(v)
	require.True(t, f.Validate(), f.Errors)
	u := &models.User{}
	require.NoError(t, f.Apply(u))
	assert.NotEqual(t, "secret1", u.Pwd)
	assert.True(t, u.CheckPassword("secret1"))
}

type stubUsers map[string]*models.User

func (s stubUsers) FindByEmail(email string) (*models.User, error) {
	if email == "broken@example.org" {
		return nil, errors.New("db down")
	}
	return s[email], nil
}

func TestSigninForm(t *testing.T) {
	u := &models.User{ID: 3, Email: "a@example.org"}
	require.NoError(t, u.SetPassword("correct"))
	users := stubUsers{"a@example.org": u}

	tests := []struct {
		name    string
		values  url.Values
		wantErr error
		emailEr string
	}{
		{"missing fields", url.Values{}, errs.ErrInvalidCredentials, msgRequired},
		{"unknown user", url.Values{"email": {"b@example.org"}, "pwd": {"x"}}, errs.ErrInvalidCredentials, msgBadLogin},
		{"wrong password", url.Values{"email": {"a@example.org"}, "pwd": {"wrong"}}, errs.ErrInvalidCredentials, msgBadLogin},
		{"correct", url.Values{"email": {"a@example.org"}, "pwd": {"correct"}, "remember": {"y"}}, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewSigninForm(users)
			f.Parse(tt.values)
			err := f.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f.User)
			} else {
				require.NoError(t, err)
				assert.Same(t, u, f.User)
				assert.True(t, f.Remember)
			}
			assert.Equal(t, tt.emailEr, f.Error("email"))
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		f := NewSigninForm(users)
		f.Parse(url.Values{"email": {"broken@example.org"}, "pwd": {"x"}})
		err := f.Validate()
		require.Error(t, err)
		assert.NotErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
