package core

import (
	"context"
	"net/http"
)

// ViewModel is the data handed to a single template execution. Page
// handlers only store strings and []string in it.
type ViewModel map[string]any

// TemplateName selects a template relative to the views root, without the
// .html extension (e.g. "pages/home").
type TemplateName string

// PageHandler builds the model and picks the template for one page request.
type PageHandler func(ctx context.Context) (ViewModel, TemplateName)

type Route struct {
	Method  string
	Path    string
	Handler PageHandler
}

const (
	HomeTemplate     TemplateName = "pages/home"
	TeamTemplate     TemplateName = "pages/team"
	ProjectsTemplate TemplateName = "pages/projects"
)

const demoUsername = "John Doe"

var routeTable = [...]Route{
	{Method: http.MethodGet, Path: "/", Handler: Home},
	{Method: http.MethodGet, Path: "/team", Handler: Team},
	{Method: http.MethodGet, Path: "/projects", Handler: Projects},
}

// Routes returns a copy of the page route table.
func Routes() []Route {
	out := make([]Route, len(routeTable))
	copy(out, routeTable[:])
	return out
}

func Home(_ context.Context) (ViewModel, TemplateName) {
	return ViewModel{
		"username": demoUsername,
	}, HomeTemplate
}

func Team(_ context.Context) (ViewModel, TemplateName) {
	return ViewModel{
		"teamMembers": []string{"Alice", "Bob", "Charlie", "David"},
	}, TeamTemplate
}

func Projects(_ context.Context) (ViewModel, TemplateName) {
	return ViewModel{
		"username": demoUsername,
		"projects": []string{"Project 1", "Project 2", "Project 3"},
	}, ProjectsTemplate
}
