package events

import (
	_ "embed"
	"encoding/json"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
)

//go:embed data/events.json
var eventsFixture []byte

// Event is one calendar entry. Tags arrive as a comma-separated list in the
// fixture; TagList splits them for filter UIs.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Description string    `json:"description"`
	Tags        string    `json:"tags"`
	ImageURL    string    `json:"image_url"`
}

// TagList splits the comma-separated tag string, dropping empties.
func (e Event) TagList() []string {
	parts := strings.Split(e.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

type fixtureFile struct {
	Data []Event `json:"data"`
}

// Service exposes read-only calendar queries.
type Service interface {
	List() []Event
	Get(id string) (*Event, error)
	On(day time.Time) []Event
	Between(from, to time.Time) []Event
}

type service struct {
	events []Event
}

// NewService loads the bundled events fixture, sorted by start time.
func NewService() (Service, error) {
	return NewServiceFromJSON(eventsFixture)
}

// NewServiceFromJSON builds a calendar from raw fixture bytes.
func NewServiceFromJSON(raw []byte) (Service, error) {
	var file fixtureFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse events fixture")
	}
	for _, event := range file.Data {
		if strings.TrimSpace(event.ID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "event fixture entry missing id")
		}
		if event.EndTime.Before(event.StartTime) {
			return nil, pkgerrors.New(pkgerrors.CodeDependency, "event fixture entry ends before it starts")
		}
	}
	sort.SliceStable(file.Data, func(i, j int) bool {
		return file.Data[i].StartTime.Before(file.Data[j].StartTime)
	})
	return &service{events: file.Data}, nil
}

func (s *service) List() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *service) Get(id string) (*Event, error) {
	for _, event := range s.events {
		if event.ID == id {
			found := event
			return &found, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
}

// On returns events overlapping the calendar day containing the given time,
// in the day's own location.
func (s *service) On(day time.Time) []Event {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.Between(start, start.AddDate(0, 0, 1))
}

// Between returns events overlapping [from, to), sorted by start time.
func (s *service) Between(from, to time.Time) []Event {
	out := make([]Event, 0)
	for _, event := range s.events {
		if event.StartTime.Before(to) && event.EndTime.After(from) {
			out = append(out, event)
		}
	}
	return out
}
