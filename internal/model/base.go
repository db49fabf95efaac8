package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// DefaultPageSize is the page size every list view requests.
const DefaultPageSize = 20

// Entity is anything the console lists and selects rows of.
type Entity interface {
	GetID() string
}

// Ref is a loosely typed reference to another record. The API sends either
// the bare id or, when populated, a small object.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	Slug  string `json:"slug,omitempty"`

	populated bool
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	if data[0] != '{' {
		return fmt.Errorf("model: unexpected reference %s", string(data))
	}

	type plain Ref
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Ref(p)
	r.populated = true
	return nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.populated {
		if r.ID == "" {
			return []byte("null"), nil
		}
		return json.Marshal(r.ID)
	}
	type plain Ref
	return json.Marshal(plain(r))
}

// Populated reports whether the API sent the referenced record rather than its id.
func (r Ref) Populated() bool {
	return r.populated
}

// IsZero reports whether the reference is absent.
func (r Ref) IsZero() bool {
	return r.ID == "" && !r.populated
}

// NameOr returns the populated name, or fallback.
func (r Ref) NameOr(fallback string) string {
	if r.Name != "" {
		return r.Name
	}
	return fallback
}

// NewRef builds a populated reference.
func NewRef(id, name string) Ref {
	return Ref{ID: id, Name: name, populated: true}
}

// Pagination is the page block of every list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Page is one fetched page of a list.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// IDs returns the ids of the rendered rows in order.
func IDs[T Entity](items []T) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.GetID())
	}
	return ids
}

// ListResponse is the envelope the admin list endpoints answer with.
type ListResponse[T any] struct {
	Success    bool        `json:"success"`
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

// Page flattens the envelope. Missing pagination defaults to zero values.
func (r ListResponse[T]) Page() Page[T] {
	p := Page[T]{Items: r.Data}
	if p.Items == nil {
		p.Items = []T{}
	}
	if r.Pagination != nil {
		p.Pagination = *r.Pagination
	}
	return p
}

// ItemResponse is the envelope single record endpoints answer with.
type ItemResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// ActionResponse is returned by endpoints that only acknowledge.
type ActionResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Modified int    `json:"modifiedCount,omitempty"`
}

// ListParams is the page part of every list query.
type ListParams struct {
	Page  int `json:"page" form:"page"`
	Limit int `json:"limit" form:"limit"`
}

// Normalize applies defaults: page 1 and DefaultPageSize.
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	return p
}

// Values encodes the page part of a list query.
func (p ListParams) Values() url.Values {
	p = p.Normalize()
	return url.Values{
		"page":  {strconv.Itoa(p.Page)},
		"limit": {strconv.Itoa(p.Limit)},
	}
}

// SetIf adds key to v unless value is empty.
func SetIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
