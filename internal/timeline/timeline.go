// AngelaMos | 2026
// timeline.go

// Package timeline turns flat project entries into the cards and folders
// the client dashboard renders. Everything here is a pure function over
// entries that were already loaded; nothing is persisted.
package timeline

import (
	"sort"
	"time"
)

const DefaultWindow = 10 * time.Second

const (
	CategoryTimeline       = "TIMELINE"
	CategoryAgreement      = "AGREEMENT"
	CategoryPaymentInvoice = "PAYMENT_INVOICE"
	CategoryHandover       = "HANDOVER"
	CategoryCertificate    = "CERTIFICATE"

	MediaImage = "IMAGE"
)

type Media struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Entry struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	Media       []Media   `json:"media"`
}

// Card is one "project update": entries uploaded together with the same
// description collapse into a single card.
type Card struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"createdAt"`
	Media       []Media   `json:"media"`
	Cover       *Media    `json:"cover"`
	EntryIDs    []string  `json:"entryIds"`
}

type Folder struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Entries []Entry `json:"entries"`
}

// Group sorts entries newest first and merges each one into the first
// existing card with an equal description whose creation time is less
// than window away from it. Media is de-duplicated by URL.
func Group(entries []Entry, window time.Duration) []Card {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	cards := make([]Card, 0, len(sorted))
	for _, e := range sorted {
		idx := findCard(cards, e, window)
		if idx < 0 {
			cards = append(cards, Card{
				ID:          e.ID,
				Description: e.Description,
				Category:    e.Category,
				CreatedAt:   e.CreatedAt,
				Media:       mergeMedia(nil, e.Media),
				EntryIDs:    []string{e.ID},
			})
			continue
		}

		cards[idx].Media = mergeMedia(cards[idx].Media, e.Media)
		cards[idx].EntryIDs = append(cards[idx].EntryIDs, e.ID)
	}

	for i := range cards {
		cards[i].Cover = Cover(cards[i].Media)
	}

	return cards
}

// Timeline groups only the TIMELINE entries.
func Timeline(entries []Entry, window time.Duration) []Card {
	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if categoryOf(e) == CategoryTimeline {
			filtered = append(filtered, e)
		}
	}
	return Group(filtered, window)
}

// Cover picks the last image in media, falling back to the first item.
func Cover(media []Media) *Media {
	if len(media) == 0 {
		return nil
	}

	for i := len(media) - 1; i >= 0; i-- {
		if media[i].Type == MediaImage {
			m := media[i]
			return &m
		}
	}

	m := media[0]
	return &m
}

var documentFolders = []struct {
	key     string
	label   string
	members []string
}{
	{CategoryAgreement, "Agreements", []string{CategoryAgreement}},
	{CategoryPaymentInvoice, "Payment Invoices", []string{CategoryPaymentInvoice}},
	{CategoryHandover, "Handover & Certificates", []string{CategoryHandover, CategoryCertificate}},
}

// Folders buckets document entries. Certificates are filed with handover
// documents; timeline entries never appear.
func Folders(entries []Entry) []Folder {
	folders := make([]Folder, 0, len(documentFolders))
	for _, def := range documentFolders {
		f := Folder{Key: def.key, Label: def.label, Entries: []Entry{}}
		for _, e := range entries {
			if contains(def.members, categoryOf(e)) {
				f.Entries = append(f.Entries, e)
			}
		}
		f.Count = len(f.Entries)
		folders = append(folders, f)
	}
	return folders
}

func findCard(cards []Card, e Entry, window time.Duration) int {
	for i, c := range cards {
		if c.Description != e.Description {
			continue
		}
		if absDuration(c.CreatedAt.Sub(e.CreatedAt)) < window {
			return i
		}
	}
	return -1
}

func mergeMedia(dst, src []Media) []Media {
	if dst == nil {
		dst = make([]Media, 0, len(src))
	}
	for _, m := range src {
		dup := false
		for _, existing := range dst {
			if existing.URL == m.URL {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, m)
		}
	}
	return dst
}

func categoryOf(e Entry) string {
	if e.Category == "" {
		return CategoryTimeline
	}
	return e.Category
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
