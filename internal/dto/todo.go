package dto

import "time"

// TodoPayload is the JSON body for POST /todos and PUT /todos/{id}.
// Title and body are validated by the service (title first, then body)
// so the error message is the same regardless of transport.
type TodoPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

type TodoResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	Tag       string     `json:"tag"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ListTodosResponse struct {
	Items []TodoResponse `json:"items"`
}
