package transport

import (
	"encoding/json"
	"net/url"
	"strconv"
)

// Page is one page of a list endpoint. Both {"items": [...], "total": n} and a bare array are
// accepted; for a bare array Total is the array length.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var items []T
	if err := json.Unmarshal(b, &items); err == nil {
		p.Items, p.Total = items, len(items)
		return nil
	}
	var obj struct {
		Items []T  `json:"items"`
		Total *int `json:"total"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	p.Items = obj.Items
	p.Total = len(obj.Items)
	if obj.Total != nil {
		p.Total = *obj.Total
	}
	return nil
}

// ListParams are the pagination and search parameters shared by list endpoints.
type ListParams struct {
	Page   int // 1-based; 0 omits
	Limit  int // 0 omits
	Search string
}

// Values encodes p as query parameters.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	return v
}
