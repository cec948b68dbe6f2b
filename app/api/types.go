package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/feedframe/feedframe/app/database"
	"github.com/feedframe/feedframe/app/form"
	"github.com/feedframe/feedframe/app/posts"
	"github.com/feedframe/feedframe/app/selection"
	"github.com/feedframe/feedframe/app/tasks"
)

type Handler struct {
	clientRepo   database.ClientRepository
	feedRepo     database.FeedRepository
	generator    *posts.Generator
	previewCache *posts.Cache
	machine      *selection.Machine
	configForm   *form.Form
	scheduler    tasks.TaskSchedulerInterface
	validate     *validator.Validate
}

type clientRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type feedUpdateRequest struct {
	Username    string               `json:"username" validate:"required"`
	Settings    database.Settings    `json:"settings"`
	APISettings database.APISettings `json:"apiSettings"`
}

// formUpdateRequest carries partial edits; only present fields are merged
// into the draft.
type formUpdateRequest struct {
	Username    *string        `json:"username"`
	Settings    map[string]any `json:"settings"`
	APISettings map[string]any `json:"apiSettings"`
}

type sessionResponse struct {
	State  string           `json:"state"`
	Client *database.Client `json:"client"`
	Feed   *database.Feed   `json:"feed"`
	Draft  form.Draft       `json:"draft"`
}
