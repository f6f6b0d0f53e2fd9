package response

import (
	"net/http"
)

type empty struct {
	status int
}

func NewEmpty(status int) Response { return &empty{status} }

func (e *empty) Respond(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(e.status)
}
