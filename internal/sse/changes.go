package sse

import (
	"maps"
	"slices"
)

// ChangeSummary is the payload of an outputs.changed event: every output touched
// since the previous outputs.changed, with the last change kind counted per name.
type ChangeSummary struct {
	Names   []string `json:"names"`
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Deleted int      `json:"deleted"`
}

// changeSet accumulates output changes between two outputs.changed events.
// It is owned by the broker loop.
type changeSet map[string]string

func (c changeSet) add(kind, name string) {
	// A file created and then edited inside one window is still new to clients.
	if prev, ok := c[name]; ok && prev == "created" && kind == "updated" {
		return
	}
	c[name] = kind
}

func (c changeSet) summary() ChangeSummary {
	s := ChangeSummary{Names: slices.Sorted(maps.Keys(c))}
	for _, kind := range c {
		switch kind {
		case "created":
			s.Created++
		case "updated":
			s.Updated++
		case "deleted":
			s.Deleted++
		}
	}
	return s
}

func (c changeSet) reset() {
	clear(c)
}
