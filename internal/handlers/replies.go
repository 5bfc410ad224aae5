package handlers

import (
	"net/http"

	"github.com/go-chi/render"
)

type HealthReply struct {
	Status string `json:"status"`
}

func (h HealthReply) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// DetailReply is the error body shape clients get on every failure: a single
// detail field carrying either a plain message or a structured upstream
// failure.
type DetailReply struct {
	Detail any `json:"detail"`

	status int
}

func (d DetailReply) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, d.status)
	return nil
}

func NewValidationFailedReply(detail string) DetailReply {
	return DetailReply{Detail: detail, status: http.StatusUnprocessableEntity}
}

func NewBadGatewayReply(detail any) DetailReply {
	return DetailReply{Detail: detail, status: http.StatusBadGateway}
}

// UpstreamFailureDetail reports what the cluster said when it rejected a
// statement, with stderr capped at the configured byte limit.
type UpstreamFailureDetail struct {
	Error  string `json:"error"`
	Stderr string `json:"stderr"`
}
