// Package content models the sites and posts the store multiplexes inside
// its single owner namespace. Every record lives in the kv store under a
// convention-structured key; the store itself stays oblivious to that
// structure.
package content

import (
	"net"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/server/kv"
)

// Site is one tenant site, keyed by its hostname.
type Site struct {
	Host        string
	Title       string
	Description string
	CreatedAt   time.Time
}

// Post is one published post on a site. ID is a UUIDv7, so post keys sort
// by creation time and the store's descending key order lists newest first.
type Post struct {
	ID        string
	Slug      string
	Title     string
	Content   string
	HTML      string
	Images    []string
	CreatedAt time.Time
}

func siteKey(host string) string { return "site:" + host }

func postKey(host, id string) string { return "post:" + host + ":" + id }

func postPrefix(host string) string { return "post:" + host + ":" }

func slugKey(host, slug string) string { return "slug:" + host + ":" + slug }

// NormalizeHost lowercases a Host header value and strips any port, so
// "Example.COM:8443" and "example.com" resolve to the same site.
func NormalizeHost(hostport string) string {
	host := strings.ToLower(strings.TrimSpace(hostport))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.Trim(host, "[]")
}

func siteToValue(s Site) kv.Value {
	return kv.Map(map[string]kv.Value{
		"host":        kv.String(s.Host),
		"title":       kv.String(s.Title),
		"description": kv.String(s.Description),
		"created_at":  kv.String(s.CreatedAt.UTC().Format(time.RFC3339)),
	})
}

func valueToSite(v kv.Value) Site {
	return Site{
		Host:        fieldString(v, "host"),
		Title:       fieldString(v, "title"),
		Description: fieldString(v, "description"),
		CreatedAt:   fieldTime(v, "created_at"),
	}
}

func postToValue(p Post) kv.Value {
	images := make([]kv.Value, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, kv.String(img))
	}
	return kv.Map(map[string]kv.Value{
		"id":         kv.String(p.ID),
		"slug":       kv.String(p.Slug),
		"title":      kv.String(p.Title),
		"content":    kv.String(p.Content),
		"html":       kv.String(p.HTML),
		"images":     kv.List(images...),
		"created_at": kv.String(p.CreatedAt.UTC().Format(time.RFC3339)),
	})
}

func valueToPost(v kv.Value) Post {
	p := Post{
		ID:        fieldString(v, "id"),
		Slug:      fieldString(v, "slug"),
		Title:     fieldString(v, "title"),
		Content:   fieldString(v, "content"),
		HTML:      fieldString(v, "html"),
		CreatedAt: fieldTime(v, "created_at"),
	}
	if images, ok := v.Field("images"); ok {
		for _, item := range images.Items() {
			if s := item.StringOr(""); s != "" {
				p.Images = append(p.Images, s)
			}
		}
	}
	return p
}

func fieldString(v kv.Value, name string) string {
	f, _ := v.Field(name)
	return f.StringOr("")
}

func fieldTime(v kv.Value, name string) time.Time {
	t, err := time.Parse(time.RFC3339, fieldString(v, name))
	if err != nil {
		return time.Time{}
	}
	return t
}
