// RiddlesData is a paginated response payload for the riddle history.
package dto

type RiddlesData struct {
	Riddles     []RiddleInfo `json:"riddles"`
	Labels      []string     `json:"labels"`
	Length      int          `json:"length"`
	TotalPages  int          `json:"totalPages"`
	CurrentPage int          `json:"currentPage"`
	Limit       int          `json:"pageSize"`
}
