// Package services defines the Service interface for the music-streaming
// side of the pipeline and its Spotify implementation.
package services
