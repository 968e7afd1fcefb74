package api

import (
	"net/http"
	"net/url"

	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/forms"
	"github.com/rpupo63/research-project-pages/models"
)

// itemForm is the form editing records of type T.
type itemForm[T any] interface {
	Parse(url.Values)
	Validate() bool
	Fill(*T)
	Apply(*T)
	Fields() []forms.Field
}

type itemStore[T any] interface {
	Get(id any) (*T, error)
	Save(*T) error
	Delete(*T) error
}

type boundForm interface {
	Parse(url.Values)
	Validate() bool
	Fields() []forms.Field
}

// boundItem is one item resolved for a request, its form pre-filled from the record.
type boundItem struct {
	caption  string
	item     models.Item
	form     boundForm
	save     func() error
	remove   func() error
	next     string
	sections func() ([]section, error)
}

// itemKind is what the item routes know about one item type token.
type itemKind interface {
	Caption() string
	// New builds an unsaved item for project. It returns nil when the request does not name
	// a valid parent.
	New(r *http.Request, project *models.Project) (*boundItem, error)
	// Load returns the item with the given id, or nil when there is none or it belongs to
	// another project.
	Load(id string, project *models.Project) (*boundItem, error)
}

type kind[T any, PT interface {
	*T
	models.Item
}] struct {
	store    itemStore[T]
	newForm  func() itemForm[T]
	fresh    func(r *http.Request, project *models.Project) (*T, error)
	owns     func(item PT, project *models.Project) (bool, error)
	next     func(item PT, project *models.Project) string
	sections func(item PT, project *models.Project) ([]section, error)
	// remove replaces store.Delete when dependents have to go too
	remove func(item PT) error
}

func (k kind[T, PT]) Caption() string {
	return PT(new(T)).Caption()
}

func (k kind[T, PT]) New(r *http.Request, project *models.Project) (*boundItem, error) {
	rec, err := k.fresh(r, project)
	if err != nil || rec == nil {
		return nil, err
	}
	return k.bind(PT(rec), project, false), nil
}

func (k kind[T, PT]) Load(id string, project *models.Project) (*boundItem, error) {
	rec, err := k.store.Get(id)
	if err != nil || rec == nil {
		return nil, err
	}
	item := PT(rec)
	ok, err := k.owns(item, project)
	if err != nil || !ok {
		return nil, err
	}
	return k.bind(item, project, true), nil
}

func (k kind[T, PT]) bind(item PT, project *models.Project, existing bool) *boundItem {
	rec := (*T)(item)
	form := k.newForm()
	form.Fill(rec)

	b := &boundItem{
		caption: item.Caption(),
		item:    item,
		form:    form,
		save: func() error {
			form.Apply(rec)
			return k.store.Save(rec)
		},
		remove: func() error {
			if k.remove != nil {
				return k.remove(item)
			}
			return k.store.Delete(rec)
		},
		// foreign keys are not editable, so the target is fixed before any write
		next: k.next(item, project),
	}
	if existing && k.sections != nil {
		b.sections = func() ([]section, error) { return k.sections(item, project) }
	}
	return b
}

// projectItemKind covers items owned directly by a project.
func projectItemKind[T any, PT interface {
	*T
	models.ProjectItem
}](store itemStore[T], newForm func() itemForm[T]) kind[T, PT] {
	return kind[T, PT]{
		store:   store,
		newForm: newForm,
		fresh: func(_ *http.Request, project *models.Project) (*T, error) {
			rec := new(T)
			PT(rec).SetOwner(project.ID)
			return rec, nil
		},
		owns: func(item PT, project *models.Project) (bool, error) {
			return item.OwnerID() == project.ID, nil
		},
		next: func(_ PT, project *models.Project) string {
			return editProjectURL(project.ShortName)
		},
	}
}

// interfaceKind is a project item whose edit page also lists its parameters. Deleting it
// deletes them as well.
func interfaceKind(apis *database.InterfaceRepo) kind[models.Interface, *models.Interface] {
	k := projectItemKind[models.Interface](apis, func() itemForm[models.Interface] { return &forms.InterfaceForm{} })
	k.remove = apis.DeleteWithParams
	k.sections = func(api *models.Interface, project *models.Project) ([]section, error) {
		params, err := apis.Params(api)
		if err != nil {
			return nil, err
		}
		return []section{
			itemSection("Parameters", project.ShortName, "param", params, idQuery("api_id", api.ID)),
		}, nil
	}
	return k
}

// parameterKind resolves a Parameter's project through its parent Interface. A parameter
// whose interface is missing or belongs to another project is reported as not found.
func parameterKind(params *database.ParameterRepo, apis *database.InterfaceRepo) kind[models.Parameter, *models.Parameter] {
	parent := func(apiID any, project *models.Project) (*models.Interface, error) {
		api, err := apis.Get(apiID)
		if err != nil || api == nil || api.ProjectID != project.ID {
			return nil, err
		}
		return api, nil
	}

	return kind[models.Parameter, *models.Parameter]{
		store:   params,
		newForm: func() itemForm[models.Parameter] { return &forms.ParameterForm{} },
		fresh: func(r *http.Request, project *models.Project) (*models.Parameter, error) {
			api, err := parent(r.URL.Query().Get("api_id"), project)
			if err != nil || api == nil {
				return nil, err
			}
			return &models.Parameter{APIID: api.ID}, nil
		},
		owns: func(p *models.Parameter, project *models.Project) (bool, error) {
			api, err := parent(p.APIID, project)
			return api != nil, err
		},
		next: func(p *models.Parameter, project *models.Project) string {
			return editItemURL(project.ShortName, "api", idQuery("id", p.APIID))
		},
	}
}

// newItemKinds maps the item type tokens used in URLs to their kinds.
func newItemKinds(db database.Database) map[string]itemKind {
	return map[string]itemKind{
		"pub": projectItemKind[models.Publication](db.PublicationRepo(),
			func() itemForm[models.Publication] { return &forms.PublicationForm{} }),
		"app": projectItemKind[models.Application](db.ApplicationRepo(),
			func() itemForm[models.Application] { return &forms.ApplicationForm{} }),
		"api":   interfaceKind(db.InterfaceRepo()),
		"param": parameterKind(db.ParameterRepo(), db.InterfaceRepo()),
		"download": projectItemKind[models.Download](db.DownloadRepo(),
			func() itemForm[models.Download] { return &forms.DownloadForm{} }),
		"contact": projectItemKind[models.Contact](db.ContactRepo(),
			func() itemForm[models.Contact] { return &forms.ContactForm{} }),
	}
}

// itemSection lists items of one type with their edit and delete links.
func itemSection[T any, PT interface {
	*T
	models.Item
}](title, slug, itemType string, items []T, addQuery url.Values) section {
	s := section{Title: title, AddURL: editItemURL(slug, itemType, addQuery)}
	for i := range items {
		item := PT(&items[i])
		s.Items = append(s.Items, sectionItem{
			Label:     item.String(),
			EditURL:   editItemURL(slug, itemType, idQuery("id", item.PrimaryKey())),
			DeleteURL: deleteItemURL(slug, itemType, item.PrimaryKey()),
		})
	}
	return s
}

// projectSections lists a project's children on its edit page. Children must be loaded.
func projectSections(p *models.Project) []section {
	slug := p.ShortName
	return []section{
		itemSection("Publications", slug, "pub", p.Publications, nil),
		itemSection("Applications", slug, "app", p.Applications, nil),
		itemSection("Web APIs", slug, "api", p.Interfaces, nil),
		itemSection("Downloads", slug, "download", p.Downloads, nil),
		itemSection("Contacts", slug, "contact", p.Contacts, nil),
	}
}
