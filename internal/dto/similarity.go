package dto

// SimilarityView is one ranked model answer as shown to the user.
type SimilarityView struct {
	Rank       int    `json:"rank"`
	Label      string `json:"label"`
	Confidence int    `json:"confidence"`
	Emoji      string `json:"emoji"`
}
