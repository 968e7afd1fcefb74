package forms

import (
	"net/url"
	"strings"
	"time"

	"github.com/rpupo63/research-project-pages/models"
	"gorm.io/datatypes"
)

const dateLayout = "2006-01-02"

type PublicationForm struct {
	base      `validate:"-"`
	Title     string `form:"title" validate:"required,max=128"`
	Authors   string `form:"authors" validate:"required,max=128"`
	Publisher string `form:"publisher" validate:"required,max=128"`
	Date      string `form:"date" validate:"required,datetime=2006-01-02"`
}

func (f *PublicationForm) Parse(v url.Values) {
	f.Title = trimmed(v, "title")
	f.Authors = trimmed(v, "authors")
	f.Publisher = trimmed(v, "publisher")
	f.Date = trimmed(v, "date")
}

func (f *PublicationForm) Validate() bool { return f.check(f) }

func (f *PublicationForm) Fill(p *models.Publication) {
	f.Title = p.Title
	f.Authors = p.Authors
	f.Publisher = p.Publisher
	if d := time.Time(p.Date); !d.IsZero() {
		f.Date = d.Format(dateLayout)
	}
}

func (f *PublicationForm) Apply(p *models.Publication) {
	p.Title = f.Title
	p.Authors = f.Authors
	p.Publisher = f.Publisher
	if d, err := time.Parse(dateLayout, f.Date); err == nil {
		p.Date = datatypes.Date(d)
	}
}

func (f *PublicationForm) Fields() []Field {
	return []Field{
		f.field("title", "Title", "text", f.Title, true),
		f.field("authors", "Authors", "text", f.Authors, true),
		f.field("publisher", "Publisher", "text", f.Publisher, true),
		f.field("date", "Publish Date", "date", f.Date, true),
	}
}

type ApplicationForm struct {
	base   `validate:"-"`
	Name   string `form:"name" validate:"required,max=32"`
	URL    string `form:"url" validate:"required,url,max=128"`
	ImgURL string `form:"img_url" validate:"required,url,max=128"`
	Desc   string `form:"desc" validate:"required"`
}

func (f *ApplicationForm) Parse(v url.Values) {
	f.Name = trimmed(v, "name")
	f.URL = trimmed(v, "url")
	f.ImgURL = trimmed(v, "img_url")
	f.Desc = trimmed(v, "desc")
}

func (f *ApplicationForm) Validate() bool { return f.check(f) }

func (f *ApplicationForm) Fill(a *models.Application) {
	f.Name = a.Name
	f.URL = a.URL
	f.ImgURL = a.ImgURL
	f.Desc = a.Desc
}

func (f *ApplicationForm) Apply(a *models.Application) {
	a.Name = f.Name
	a.URL = f.URL
	a.ImgURL = f.ImgURL
	a.Desc = f.Desc
}

func (f *ApplicationForm) UploadField() string { return "image" }

func (f *ApplicationForm) SetUploadedURL(link string) { f.ImgURL = link }

func (f *ApplicationForm) Fields() []Field {
	return []Field{
		f.field("name", "Name", "text", f.Name, true),
		f.field("url", "URL", "url", f.URL, true),
		f.field("img_url", "Image URL", "url", f.ImgURL, true),
		f.field("desc", "Description", "textarea", f.Desc, true),
	}
}

type InterfaceForm struct {
	base    `validate:"-"`
	Method  string `form:"method" validate:"required,oneof=GET POST PUT DELETE"`
	Format  string `form:"format" validate:"required,max=128"`
	Desc    string `form:"desc" validate:"required"`
	Returns string `form:"returns" validate:"required"`
	Example string `form:"example" validate:"required"`
}

func (f *InterfaceForm) Parse(v url.Values) {
	f.Method = strings.ToUpper(trimmed(v, "method"))
	f.Format = trimmed(v, "format")
	f.Desc = trimmed(v, "desc")
	f.Returns = trimmed(v, "returns")
	f.Example = trimmed(v, "example")
}

func (f *InterfaceForm) Validate() bool { return f.check(f) }

func (f *InterfaceForm) Fill(i *models.Interface) {
	f.Method = i.Method
	f.Format = i.Format
	f.Desc = i.Desc
	f.Returns = i.Returns
	f.Example = i.Example
}

func (f *InterfaceForm) Apply(i *models.Interface) {
	i.Method = f.Method
	i.Format = f.Format
	i.Desc = f.Desc
	i.Returns = f.Returns
	i.Example = f.Example
}

func (f *InterfaceForm) Fields() []Field {
	method := f.field("method", "Method", "select", f.Method, true)
	for _, m := range models.Methods {
		method.Options = append(method.Options, Option{Value: m, Label: m, Selected: m == f.Method})
	}
	return []Field{
		method,
		f.field("format", "Format", "text", f.Format, true),
		f.field("desc", "Description", "textarea", f.Desc, true),
		f.field("returns", "Returns", "textarea", f.Returns, true),
		f.field("example", "Example", "textarea", f.Example, true),
	}
}

type ParameterForm struct {
	base `validate:"-"`
	Name string `form:"name" validate:"required,max=32"`
	Desc string `form:"desc" validate:"required"`
}

func (f *ParameterForm) Parse(v url.Values) {
	f.Name = trimmed(v, "name")
	f.Desc = trimmed(v, "desc")
}

func (f *ParameterForm) Validate() bool { return f.check(f) }

func (f *ParameterForm) Fill(p *models.Parameter) {
	f.Name = p.Name
	f.Desc = p.Desc
}

func (f *ParameterForm) Apply(p *models.Parameter) {
	p.Name = f.Name
	p.Desc = f.Desc
}

func (f *ParameterForm) Fields() []Field {
	return []Field{
		f.field("name", "Name", "text", f.Name, true),
		f.field("desc", "Description", "textarea", f.Desc, true),
	}
}

type DownloadForm struct {
	base `validate:"-"`
	URL  string `form:"url" validate:"required,url,max=128"`
	Name string `form:"name" validate:"required,max=32"`
}

func (f *DownloadForm) Parse(v url.Values) {
	f.URL = trimmed(v, "url")
	f.Name = trimmed(v, "name")
}

func (f *DownloadForm) Validate() bool { return f.check(f) }

func (f *DownloadForm) Fill(d *models.Download) {
	f.URL = d.URL
	f.Name = d.Name
}

func (f *DownloadForm) Apply(d *models.Download) {
	d.URL = f.URL
	d.Name = f.Name
}

func (f *DownloadForm) UploadField() string { return "file" }

func (f *DownloadForm) SetUploadedURL(link string) { f.URL = link }

func (f *DownloadForm) Fields() []Field {
	return []Field{
		f.field("url", "URL", "url", f.URL, true),
		f.field("name", "Name", "text", f.Name, true),
	}
}

type ContactForm struct {
	base  `validate:"-"`
	Name  string `form:"name" validate:"required,max=32"`
	Email string `form:"email" validate:"required,email,max=128"`
}

func (f *ContactForm) Parse(v url.Values) {
	f.Name = trimmed(v, "name")
	f.Email = trimmed(v, "email")
}

func (f *ContactForm) Validate() bool { return f.check(f) }

func (f *ContactForm) Fill(c *models.Contact) {
	f.Name = c.Name
	f.Email = c.Email
}

func (f *ContactForm) Apply(c *models.Contact) {
	c.Name = f.Name
	c.Email = f.Email
}

func (f *ContactForm) Fields() []Field {
	return []Field{
		f.field("name", "Name", "text", f.Name, true),
		f.field("email", "Email", "email", f.Email, true),
	}
}
