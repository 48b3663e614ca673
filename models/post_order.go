package models

import "strings"

// PostOrder is the sort order of the public blog listing.
type PostOrder int

const (
	OrderCreatedAtDesc PostOrder = iota
	OrderViewsDesc
)

// ParsePostOrder maps a request value to an order. Anything unrecognized,
// including the empty string, falls back to newest first.
func ParsePostOrder(value string) PostOrder {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "views", "-views", "by_views":
		return OrderViewsDesc
	default:
		return OrderCreatedAtDesc
	}
}

func (o PostOrder) String() string {
	if o == OrderViewsDesc {
		return "views"
	}
	return "created_at"
}

// Clause is the ORDER BY expression for the order. Ties are broken by
// creation time so pages stay stable.
func (o PostOrder) Clause() string {
	if o == OrderViewsDesc {
		return "blog_posts.views DESC, blog_posts.created_at DESC"
	}
	return "blog_posts.created_at DESC"
}
