// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides the fixed-size page arithmetic shared by the
// REST and GraphQL post listings.
//
// # Overview
//
// Pages are 1-indexed and always hold [PageSize] items. Clients only choose
// the page number; a missing, malformed or non-positive page means page 1.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// PageSize is the number of posts per page.
	PageSize = 2
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// MaxPage is the largest page whose offset still fits in an int.
	MaxPage = math.MaxInt / PageSize
)

// Params holds the normalized page and its fixed limit.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Page builds Params for a page number, clamping values below 1 to
// [DefaultPage] and values above [MaxPage] to [MaxPage].
func Page(page int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	return Params{Page: page, Limit: PageSize}
}

// FromRequest parses the "page" query parameter from an HTTP request.
func FromRequest(r *http.Request) Params {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return Page(DefaultPage)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return Page(DefaultPage)
	}

	return Page(n)
}
