// Package activity projects request events into the items shown on a
// user's activity feed.
package activity

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"foidesk/internal/models"
)

var labels = func() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	_ = b.SetString(language.English, "View", "View")
	_ = b.SetString(language.Spanish, "View", "Ver")
	_ = b.SetString(language.French, "View", "Voir")
	return b
}()

// Link pairs display text with a navigable path.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Item is a read-only view of one event on the activity feed.
type Item struct {
	event *models.Event
}

// NewItem wraps an event. The event's request, body and user should be
// preloaded; missing associations render as empty strings.
func NewItem(e *models.Event) *Item {
	return &Item{event: e}
}

// Items wraps a slice of events.
func Items(events []models.Event) []*Item {
	out := make([]*Item, len(events))
	for i := range events {
		out[i] = NewItem(&events[i])
	}
	return out
}

func (it *Item) request() *models.InfoRequest {
	if it.event == nil {
		return nil
	}
	return it.event.InfoRequest
}

func (it *Item) body() *models.PublicBody {
	if r := it.request(); r != nil {
		return r.PublicBody
	}
	return nil
}

// InfoRequestPath is the path of the request the event belongs to.
func (it *Item) InfoRequestPath() string {
	if r := it.request(); r != nil {
		return r.Path()
	}
	return ""
}

// InfoRequestTitle is the title of the request.
func (it *Item) InfoRequestTitle() string {
	if r := it.request(); r != nil {
		return r.Title
	}
	return ""
}

// BodyName is the name of the public body the request was made to.
func (it *Item) BodyName() string {
	if b := it.body(); b != nil {
		return b.Name
	}
	return ""
}

// BodyPath is the path of the public body page.
func (it *Item) BodyPath() string {
	if b := it.body(); b != nil {
		return b.Path()
	}
	return ""
}

// CallToAction returns the action label in the given locale.
func (it *Item) CallToAction(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag, message.Catalog(labels)).Sprintf("View")
}

// DescriptionURLs returns the linked fragments used to describe the event.
func (it *Item) DescriptionURLs() map[string]Link {
	return map[string]Link{
		"public_body_name":   {Text: it.BodyName(), URL: it.BodyPath()},
		"info_request_title": {Text: it.InfoRequestTitle(), URL: it.InfoRequestPath()},
	}
}

// EventTime is when the event happened.
func (it *Item) EventTime() time.Time {
	if it.event == nil {
		return time.Time{}
	}
	return it.event.CreatedAt
}

// View is the JSON shape of an item.
type View struct {
	EventType        string          `json:"event_type"`
	InfoRequestPath  string          `json:"info_request_path"`
	InfoRequestTitle string          `json:"info_request_title"`
	BodyName         string          `json:"body_name"`
	BodyPath         string          `json:"body_path"`
	CallToAction     string          `json:"call_to_action"`
	DescriptionURLs  map[string]Link `json:"description_urls"`
	EventTime        time.Time       `json:"event_time"`
}

// View renders the item for the given locale.
func (it *Item) View(locale string) View {
	v := View{
		InfoRequestPath:  it.InfoRequestPath(),
		InfoRequestTitle: it.InfoRequestTitle(),
		BodyName:         it.BodyName(),
		BodyPath:         it.BodyPath(),
		CallToAction:     it.CallToAction(locale),
		DescriptionURLs:  it.DescriptionURLs(),
		EventTime:        it.EventTime(),
	}
	if it.event != nil {
		v.EventType = it.event.EventType
	}
	return v
}
