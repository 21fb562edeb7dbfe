// Package models defines the domain data types shared between the scraper,
// the music service layer, and the build engine.
package models
