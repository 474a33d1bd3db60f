package models

// Track is the metadata document written next to the output data.
type Track struct {
	NewsletterDate string `json:"newsletter_date"`
	UpdatedAt      string `json:"updated_at"`
}

// NewsletterMetadata is the display form of Track.
type NewsletterMetadata struct {
	NewsletterDate string `json:"newsletter_date"`
	UpdatedAt      string `json:"updated_at"`
}
