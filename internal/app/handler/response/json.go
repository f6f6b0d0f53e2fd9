package response

import (
	"encoding/json"
	"net/http"

	"github.com/solenergy/solenergy.com/internal/logging"
)

type jsonresponse struct {
	status int
	b      []byte
}

func NewJson(status int, data any) (Response, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &jsonresponse{status, b}, nil
}

func (resp *jsonresponse) Respond(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	logging.Logger(r).Printf("response %d: %s\n", resp.status, resp.b)
	if _, err := w.Write(resp.b); err != nil {
		logging.Logger(r).Println("write error:", err)
	}
}
