package models

// Concert is a single event entry extracted from a listing page.
//
// Name is the headline text as it appears in the markup. DetailPath is the
// relative link to the event's detail page, empty when none was found; it is
// only followed for lineup expansion.
type Concert struct {
	Name       string `json:"name"`
	DetailPath string `json:"detail_path,omitempty"`
}

// Artist is a resolved streaming-service artist identity.
type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// Track is one artist's top track.
type Track struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	URI    string `json:"uri"`
}

// Playlist is a created streaming-service playlist.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
	URI         string `json:"uri"`
}

// User is the authenticated streaming-service user.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
