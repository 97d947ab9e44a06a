package model

// PageMeta describes a 1-indexed page window. LastPage is the highest page
// that has content; requesting past it returns an empty list with this
// metadata intact.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

type GetTimelineRequest struct {
	Page int `form:"page"`
}

type GetTimelineResponse struct {
	Posts []Post   `json:"posts"`
	Meta  PageMeta `json:"meta"`
}
