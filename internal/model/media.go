package model

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidMediaType = errors.New("tipo must be filme or serie")

// TimeLayout renders timestamps the way the JSON API exposes them.
const TimeLayout = "2006-01-02 15:04:05"

type MediaType string

const (
	MediaMovie  MediaType = "filme"
	MediaSeries MediaType = "serie"
)

// ParseMediaType accepts the wire values plus their English aliases.
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "filme", "movie":
		return MediaMovie, nil
	case "serie", "series", "tv":
		return MediaSeries, nil
	}
	return "", ErrInvalidMediaType
}

func (m MediaType) Valid() bool {
	return m == MediaMovie || m == MediaSeries
}

type Favorite struct {
	ID          int64     `json:"id"`
	Title       string    `json:"titulo"`
	MediaType   MediaType `json:"tipo"`
	Description string    `json:"descricao"`
	AddedAt     time.Time `json:"-"`
}

type FavoriteRequest struct {
	Title       string `json:"titulo"`
	MediaType   string `json:"tipo"`
	Description string `json:"descricao"`
}

type HistoryEntry struct {
	ID         int64     `json:"-"`
	Title      string    `json:"titulo"`
	MediaType  MediaType `json:"tipo"`
	SearchedAt time.Time `json:"-"`
}

// CatalogResult is the normalized first match of a catalog search.
type CatalogResult struct {
	Title       string `json:"titulo"`
	Overview    string `json:"descricao"`
	ReleaseDate string `json:"data_lancamento"`
}
