package domain

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// SortField enumerates sortable user fields. The member value is the wire
// token; the storage attribute it maps to is resolved by Column.
type SortField string

const (
	SortFieldName         SortField = "NAME"
	SortFieldEmail        SortField = "EMAIL"
	SortFieldStatus       SortField = "STATUS"
	SortFieldCreationDate SortField = "CREATION_DATE"
)

var sortFields = []SortField{SortFieldName, SortFieldEmail, SortFieldStatus, SortFieldCreationDate}

// Column returns the storage attribute backing the sort field.
func (f SortField) Column() string {
	if f == SortFieldCreationDate {
		return "created_at"
	}
	return strings.ToLower(string(f))
}

// ParseSortField parses a free-text sort value; blank means "no preference".
func ParseSortField(value string) (SortField, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	for _, field := range sortFields {
		if strings.EqualFold(value, string(field)) {
			return field, nil
		}
	}
	return "", apperrors.NewInvalidEnumError("sort", value, acceptedValues(sortFields))
}

// SortDirection enumerates sort orderings.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

var sortDirections = []SortDirection{SortAsc, SortDesc}

// ParseSortDirection parses a free-text sort type; blank means "no preference".
func ParseSortDirection(value string) (SortDirection, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	for _, direction := range sortDirections {
		if strings.EqualFold(value, string(direction)) {
			return direction, nil
		}
	}
	return "", apperrors.NewInvalidEnumError("sort type", value, acceptedValues(sortDirections))
}

// UserSearch is a validated, immutable search specification. Construct it
// with NewUserSearch; it is consumed once by the search engine.
type UserSearch struct {
	Name           string
	Email          string
	Status         UserStatus
	CreatedAtStart *time.Time
	CreatedAtEnd   *time.Time
	Sort           SortField
	SortDirection  SortDirection
	Page           int
	Limit          *int
}

// SearchParams carries the raw optional inputs of a search request.
type SearchParams struct {
	Name           string
	Email          string
	Status         string
	CreatedAtStart string
	CreatedAtEnd   string
	Sort           string
	SortType       string
	Page           string
	Limit          string
}

// NewUserSearch validates and normalizes raw search parameters into a
// specification. All supplied filters combine with logical AND.
func NewUserSearch(params SearchParams) (*UserSearch, error) {
	status, err := ParseUserStatus(params.Status)
	if err != nil {
		return nil, err
	}
	sort, err := ParseSortField(params.Sort)
	if err != nil {
		return nil, err
	}
	if sort == "" {
		sort = SortFieldName
	}
	direction, err := ParseSortDirection(params.SortType)
	if err != nil {
		return nil, err
	}
	if direction == "" {
		direction = SortAsc
	}

	start, err := parseInstant(params.CreatedAtStart)
	if err != nil {
		return nil, err
	}
	end, err := parseInstant(params.CreatedAtEnd)
	if err != nil {
		return nil, err
	}

	page := 1
	if strings.TrimSpace(params.Page) != "" {
		page, err = strconv.Atoi(params.Page)
		if err != nil {
			return nil, apperrors.NewInvalidFieldError("page")
		}
	}
	if page < 1 {
		return nil, apperrors.NewInvalidArgument("The 'page' field must be greater than or equal to 1")
	}

	var limit *int
	if strings.TrimSpace(params.Limit) != "" {
		parsed, err := strconv.Atoi(params.Limit)
		if err != nil {
			return nil, apperrors.NewInvalidFieldError("limit")
		}
		if parsed < 1 {
			return nil, apperrors.NewInvalidArgument("The 'limit' field must be greater than or equal to 1")
		}
		limit = &parsed
	}

	return &UserSearch{
		Name:           params.Name,
		Email:          params.Email,
		Status:         status,
		CreatedAtStart: start,
		CreatedAtEnd:   end,
		Sort:           sort,
		SortDirection:  direction,
		Page:           page,
		Limit:          limit,
	}, nil
}

// parseInstant accepts date-only or full RFC 3339 instant literals.
func parseInstant(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return nil, apperrors.NewInvalidDateError(value)
}

// SearchResult is one page of users plus the total match count and the
// configured maximum page size, echoed back to the caller.
type SearchResult struct {
	Users    []User
	Total    int
	MaxLimit int
}
