package dto

// AlbumEntry is one photo of the time-lapse album. Error is set when the
// capture time could not be read from the name.
type AlbumEntry struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	CapturedAt string `json:"capturedAt,omitempty"`
	Error      string `json:"error,omitempty"`
	URL        string `json:"url"`
}

// PhotoDetails is the detail page of one album photo.
type PhotoDetails struct {
	Name       string `json:"name"`
	CapturedAt string `json:"capturedAt,omitempty"`
	TimeTaken  string `json:"timeTaken"`
	Location   string `json:"location"`
	URL        string `json:"url"`
}

// AlbumView is the state of the time-lapse page for one session.
type AlbumView struct {
	State    string        `json:"state"`
	Allowed  []string      `json:"allowed"`
	Entries  []AlbumEntry  `json:"entries"`
	Selected *PhotoDetails `json:"selected,omitempty"`
}
