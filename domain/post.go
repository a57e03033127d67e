package domain

// Post is the view of a blog post this tool reads back from the platform.
type Post struct {
	ID    string
	Tags  []string
	State string
	Type  string
}

// UploadResult is what a finished photo/video publish reports.
type UploadResult struct {
	ID       string
	URL      string
	Warnings []string // Non-fatal problems, e.g. a failed tag cleanup.
}
