package rancher

import (
	"errors"
	"fmt"
)

// Links holds the hypermedia links attached to every Rancher resource.
type Links struct {
	Self   string `json:"self,omitempty"`
	Stacks string `json:"stacks,omitempty"`
}

// Project is an environment as returned by GET /projects.
type Project struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Links Links  `json:"links"`
}

type ProjectCollection struct {
	Data []Project `json:"data"`
}

type Stack struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	State string `json:"state,omitempty"`
	Links Links  `json:"links"`
}

type StackCollection struct {
	Data []Stack `json:"data"`
}

// StackPayload is the body sent to a stacks collection to create a stack.
type StackPayload struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	DockerCompose  string `json:"dockerCompose"`
	RancherCompose string `json:"rancherCompose,omitempty"`
	StartOnCreate  string `json:"startOnCreate"`
}

// NewStackPayload builds a create payload. rancherCompose is left out when empty.
func NewStackPayload(name, description, dockerCompose, rancherCompose, startOnCreate string) StackPayload {
	return StackPayload{
		Name:           name,
		Description:    description,
		DockerCompose:  dockerCompose,
		RancherCompose: rancherCompose,
		StartOnCreate:  startOnCreate,
	}
}

var (
	// ErrEmptyEnvironmentResponse means the project lookup returned no body at all.
	ErrEmptyEnvironmentResponse = errors.New("no http response body for environment lookup")

	// ErrEnvironmentNotFound means the project lookup returned an empty data array.
	ErrEnvironmentNotFound = errors.New("environment not found")
)

// ShapeError reports a response body that does not match the expected collection shape.
type ShapeError struct {
	Resource string
	URL      string
	Err      error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected %s response shape from %s: %v", e.Resource, e.URL, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx status on a lookup whose result is required.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s returned status %d", e.URL, e.StatusCode)
}
