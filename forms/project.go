package forms

import (
	"net/url"

	"github.com/rpupo63/research-project-pages/models"
)

type ProjectForm struct {
	base      `validate:"-"`
	Name      string `form:"name" validate:"required,max=32"`
	ShortName string `form:"short_name" validate:"required,max=16,slug"`
	ShortDesc string `form:"short_desc" validate:"required,max=128"`
	Desc      string `form:"desc" validate:"required"`
	APIDesc   string `form:"api_desc" validate:"required"`
	GithubURL string `form:"github_url" validate:"omitempty,url,max=128"`
}

func (f *ProjectForm) Parse(v url.Values) {
	f.Name = trimmed(v, "name")
	f.ShortName = trimmed(v, "short_name")
	f.ShortDesc = trimmed(v, "short_desc")
	f.Desc = trimmed(v, "desc")
	f.APIDesc = trimmed(v, "api_desc")
	f.GithubURL = trimmed(v, "github_url")
}

func (f *ProjectForm) Validate() bool { return f.check(f) }

func (f *ProjectForm) Fill(p *models.Project) {
	f.Name = p.Name
	f.ShortName = p.ShortName
	f.ShortDesc = p.ShortDesc
	f.Desc = p.Desc
	f.APIDesc = p.APIDesc
	f.GithubURL = p.GithubLink()
}

// Apply copies the form onto p. The update date is left to the storage layer.
func (f *ProjectForm) Apply(p *models.Project) {
	p.Name = f.Name
	p.ShortName = f.ShortName
	p.ShortDesc = f.ShortDesc
	p.Desc = f.Desc
	p.APIDesc = f.APIDesc
	if f.GithubURL == "" {
		p.GithubURL = nil
	} else {
		gh := f.GithubURL
		p.GithubURL = &gh
	}
}

func (f *ProjectForm) Fields() []Field {
	return []Field{
		f.field("name", "Project Name", "text", f.Name, true),
		f.field("short_name", "Short Name", "text", f.ShortName, true),
		f.field("short_desc", "Short Description", "text", f.ShortDesc, true),
		f.field("desc", "Description", "textarea", f.Desc, true),
		f.field("api_desc", "API Description", "textarea", f.APIDesc, true),
		f.field("github_url", "GitHub URL", "url", f.GithubURL, false),
	}
}
