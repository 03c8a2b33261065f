package handlers

// PageResponse is a raw response with an explicit status. Empty headers are
// not sent.
type PageResponse struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Location    string `header:"Location"`
	Body        []byte
}

// SubmitRequest is the url-encoded form posted by the index page.
type SubmitRequest struct {
	RawBody []byte `contentType:"application/x-www-form-urlencoded"`
}

// ResolveRequest addresses a short link. A trailing "+" asks for the info page.
type ResolveRequest struct {
	Code string `doc:"Short code, optionally followed by +" example:"abc123" path:"code"`
}

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)
