package models

import "time"

// Pagination describes the position of a fetched page within a queue.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// PageQuery is the filter a table sends when fetching a page.
type PageQuery struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	SearchTerm string     `json:"searchTerm,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

// Page is one fetched page of queue rows plus the queue's total row count.
type Page struct {
	Items []Entity `json:"items"`
	Total int      `json:"total"`
}
