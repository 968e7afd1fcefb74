package api

import (
	"fmt"
	"net/url"
	"strings"
)

func projectURL(slug string) string {
	return "/project/" + url.PathEscape(slug)
}

func editProjectURL(slug string) string {
	return projectURL(slug) + "/edit"
}

func editItemURL(slug, itemType string, query url.Values) string {
	target := editProjectURL(slug) + "/" + itemType
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func deleteItemURL(slug, itemType string, id uint) string {
	return fmt.Sprintf("%s/delete/%s?id=%d", projectURL(slug), itemType, id)
}

func editUserURL(id uint) string {
	return fmt.Sprintf("/user/%d/edit", id)
}

func idQuery(key string, id uint) url.Values {
	return url.Values{key: {fmt.Sprint(id)}}
}

// safeNext returns next when it is a path on this site and "/" otherwise.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return next
}
