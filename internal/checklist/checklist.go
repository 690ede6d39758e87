// Package checklist holds the skill checklist model and the rules that turn
// arbitrary JSON into a canonical checklist.
package checklist

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultTitle     = "Skill checklist"
	DefaultGroupName = "Skill lane"
	DefaultItemName  = "Skill"

	maxSlugRunes = 24
)

// ErrInvalidChecklist is returned when a value cannot be normalized into a
// checklist with at least one group.
var ErrInvalidChecklist = errors.New("invalid checklist")

type Status string

const (
	StatusLearned Status = "learned"
	StatusPending Status = "pending"
)

// ParseStatus lower-cases and trims s. ok is false for anything other than
// learned or pending.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusLearned:
		return StatusLearned, true
	case StatusPending:
		return StatusPending, true
	}
	return StatusPending, false
}

type Checklist struct {
	Title  string  `json:"title"`
	Groups []Group `json:"groups"`
}

type Group struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Meta   string `json:"meta"`
	Status Status `json:"status"`
}

// Parse decodes data and normalizes it.
func Parse(data []byte) (*Checklist, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChecklist, err)
	}
	return Normalize(raw)
}

// Normalize converts a decoded JSON value into a canonical checklist.
// Normalizing the JSON form of its own output yields an equal checklist.
func Normalize(v any) (*Checklist, error) {
	root, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected an object", ErrInvalidChecklist)
	}
	rawGroups, ok := root["groups"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: groups must be a list", ErrInvalidChecklist)
	}

	out := &Checklist{Title: DefaultTitle}
	if title := strings.TrimSpace(stringify(root["title"])); title != "" {
		out.Title = title
	}

	seen := make(map[string]int)
	for _, rg := range rawGroups {
		g, ok := rg.(map[string]any)
		if !ok {
			continue
		}
		group := Group{Name: strings.TrimSpace(stringify(g["name"]))}
		if group.Name == "" {
			group.Name = DefaultGroupName
		}

		rawItems, _ := g["items"].([]any)
		for _, ri := range rawItems {
			it, ok := ri.(map[string]any)
			if !ok {
				continue
			}
			group.Items = append(group.Items, normalizeItem(it, len(group.Items), seen))
		}

		if len(group.Items) > 0 {
			out.Groups = append(out.Groups, group)
		}
	}

	if len(out.Groups) == 0 {
		return nil, fmt.Errorf("%w: no groups with items", ErrInvalidChecklist)
	}
	return out, nil
}

func normalizeItem(it map[string]any, index int, seen map[string]int) Item {
	item := Item{
		Name: stringify(it["name"]),
		Meta: strings.TrimSpace(stringify(it["meta"])),
	}
	if _, present := it["name"]; !present || it["name"] == nil {
		item.Name = DefaultItemName
	}
	item.Status, _ = ParseStatus(stringify(it["status"]))

	id := strings.TrimSpace(stringify(it["id"]))
	if id == "" {
		id = "auto-" + slug(item.Name) + "-" + strconv.Itoa(index+1)
	}
	item.ID = uniqueID(id, seen)
	return item
}

// uniqueID appends -2, -3, ... to ids already used in the checklist.
func uniqueID(id string, seen map[string]int) string {
	if _, used := seen[id]; !used {
		seen[id] = 1
		return id
	}
	for n := seen[id] + 1; ; n++ {
		candidate := id + "-" + strconv.Itoa(n)
		if _, used := seen[candidate]; !used {
			seen[id] = n
			seen[candidate] = 1
			return candidate
		}
	}
}

func slug(name string) string {
	s := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	if r := []rune(s); len(r) > maxSlugRunes {
		s = string(r[:maxSlugRunes])
	}
	if s == "" {
		return "skill"
	}
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// Progress counts learned and pending items.
func (c *Checklist) Progress() (done, pending int) {
	for _, g := range c.Groups {
		for _, it := range g.Items {
			if it.Status == StatusLearned {
				done++
			} else {
				pending++
			}
		}
	}
	return done, pending
}

// SetStatus updates the item with the given id. It reports false when no
// such item exists.
func (c *Checklist) SetStatus(id string, status Status) bool {
	for gi := range c.Groups {
		for ii := range c.Groups[gi].Items {
			if c.Groups[gi].Items[ii].ID == id {
				c.Groups[gi].Items[ii].Status = status
				return true
			}
		}
	}
	return false
}

// Clone returns a deep copy.
func (c *Checklist) Clone() *Checklist {
	out := &Checklist{Title: c.Title, Groups: make([]Group, len(c.Groups))}
	for i, g := range c.Groups {
		out.Groups[i] = Group{Name: g.Name, Items: append([]Item(nil), g.Items...)}
	}
	return out
}

// Marshal encodes the checklist in its persisted JSON form.
func (c *Checklist) Marshal() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
