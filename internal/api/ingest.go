package api

// IngestRequest is accepted from the browser client and from the Gmail push
// receiver's internal forward. EmailId/Subject are only set on the email path.
type IngestRequest struct {
	Url     string `json:"url" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	EmailId string `json:"emailId,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// IngestResponse mirrors the original wire shape: status echoes the outcome,
// type classifies the link (video, shorts, playlist or error).
type IngestResponse struct {
	Status int    `json:"status"`
	Id     string `json:"id"`
	Type   string `json:"type"`
}
