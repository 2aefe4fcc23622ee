// AngelaMos | 2026
// dto.go

package project

import (
	"time"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/entry"
)

type CreateProjectRequest struct {
	Title       string  `json:"title"                 validate:"required,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	ClientID    string  `json:"clientId"              validate:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING IN_PROGRESS DELAYED COMPLETED"`
}

type ClientRef struct {
	Username string `json:"username"`
}

type Response struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	ClientID    string     `json:"clientId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Client      *ClientRef `json:"client,omitempty"`
}

type DetailResponse struct {
	Response
	Entries []entry.Response `json:"entries"`
}

// Detail is a project together with its shaped entries.
type Detail struct {
	Project Project
	Entries []entry.Entry
}

func ToResponse(p *Project) Response {
	resp := Response{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		ClientID:    p.ClientID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ClientUsername != "" {
		resp.Client = &ClientRef{Username: p.ClientUsername}
	}
	return resp
}

func ToResponseList(projects []Project) []Response {
	out := make([]Response, 0, len(projects))
	for i := range projects {
		out = append(out, ToResponse(&projects[i]))
	}
	return out
}

func ToDetailResponse(d *Detail) DetailResponse {
	return DetailResponse{
		Response: ToResponse(&d.Project),
		Entries:  entry.ToResponseList(d.Entries),
	}
}

func ToDetailResponseList(details []Detail) []DetailResponse {
	out := make([]DetailResponse, 0, len(details))
	for i := range details {
		out = append(out, ToDetailResponse(&details[i]))
	}
	return out
}
