// AngelaMos | 2026
// dto.go

package entry

import (
	"time"

	"github.com/sivakrishna1252/Bauhaus-Admin/internal/timeline"
)

type Response struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"projectId"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	FileURL     string           `json:"fileUrl"`
	FileType    string           `json:"fileType"`
	CreatedAt   time.Time        `json:"createdAt"`
	Media       []timeline.Media `json:"media"`
}

// UpdateEntryRequest is the JSON form of an entry update. Files can only be
// replaced through a multipart body.
type UpdateEntryRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type DocumentsResponse struct {
	Total   int               `json:"total"`
	Folders []timeline.Folder `json:"folders"`
}

// ToResponse presents the single stored file as a one-item media list and
// defaults a missing category to TIMELINE.
func ToResponse(e *Entry) Response {
	category := e.Category
	if category == "" {
		category = CategoryTimeline
	}

	media := []timeline.Media{}
	if e.FileURL != "" {
		media = append(media, timeline.Media{URL: e.FileURL, Type: e.FileType})
	}

	return Response{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		Description: e.Description,
		Category:    category,
		FileURL:     e.FileURL,
		FileType:    e.FileType,
		CreatedAt:   e.CreatedAt,
		Media:       media,
	}
}

func ToResponseList(entries []Entry) []Response {
	out := make([]Response, 0, len(entries))
	for i := range entries {
		out = append(out, ToResponse(&entries[i]))
	}
	return out
}

func ToTimelineEntries(entries []Response) []timeline.Entry {
	out := make([]timeline.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, timeline.Entry{
			ID:          e.ID,
			Description: e.Description,
			Category:    e.Category,
			CreatedAt:   e.CreatedAt,
			Media:       e.Media,
		})
	}
	return out
}
