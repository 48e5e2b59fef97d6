package core

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	model, name := Home(testContext(t))

	assert.Equal(t, ViewModel{"username": "John Doe"}, model)
	assert.Equal(t, TemplateName("pages/home"), name)
}

func TestTeam(t *testing.T) {
	model, name := Team(testContext(t))

	assert.Equal(t, ViewModel{"teamMembers": []string{"Alice", "Bob", "Charlie", "David"}}, model)
	assert.Equal(t, TemplateName("pages/team"), name)
}

func TestProjects(t *testing.T) {
	model, name := Projects(testContext(t))

	assert.Equal(t, ViewModel{
		"username": "John Doe",
		"projects": []string{"Project 1", "Project 2", "Project 3"},
	}, model)
	assert.Equal(t, TemplateName("pages/projects"), name)
}

func TestHandlersAreIdempotent(t *testing.T) {
	for _, route := range Routes() {
		t.Run(route.Path, func(t *testing.T) {
			first, firstName := route.Handler(testContext(t))
			second, secondName := route.Handler(testContext(t))

			assert.Equal(t, first, second)
			assert.Equal(t, firstName, secondName)
		})
	}
}

func TestHandlersDoNotShareState(t *testing.T) {
	model, _ := Team(testContext(t))
	members := model["teamMembers"].([]string)
	members[0] = "Mallory"
	model["extra"] = "x"

	projects, _ := Projects(testContext(t))
	projects["username"] = "Eve"
	projects["projects"].([]string)[2] = "Project X"

	again, _ := Team(testContext(t))
	assert.Equal(t, []string{"Alice", "Bob", "Charlie", "David"}, again["teamMembers"])
	assert.NotContains(t, again, "extra")

	home, _ := Home(testContext(t))
	assert.Equal(t, "John Doe", home["username"])

	projectsAgain, _ := Projects(testContext(t))
	assert.Equal(t, []string{"Project 1", "Project 2", "Project 3"}, projectsAgain["projects"])
}

func TestRoutes(t *testing.T) {
	routes := Routes()
	require.Len(t, routes, 3)

	want := []struct {
		path     string
		template TemplateName
	}{
		{"/", HomeTemplate},
		{"/team", TeamTemplate},
		{"/projects", ProjectsTemplate},
	}

	for i, w := range want {
		assert.Equal(t, http.MethodGet, routes[i].Method)
		assert.Equal(t, w.path, routes[i].Path)
		_, name := routes[i].Handler(testContext(t))
		assert.Equal(t, w.template, name)
	}
}

func TestRoutesReturnsCopy(t *testing.T) {
	routes := Routes()
	routes[0].Path = "/hijacked"
	routes[1].Handler = Home

	fresh := Routes()
	assert.Equal(t, "/", fresh[0].Path)
	_, name := fresh[1].Handler(testContext(t))
	assert.Equal(t, TeamTemplate, name)
}
