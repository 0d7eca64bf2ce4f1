package model

// Upload is a file handed to bulk ingestion.
type Upload struct {
	Path        string
	ContentType string // declared MIME type; empty means sniff the file
}
