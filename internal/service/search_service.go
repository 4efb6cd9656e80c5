package service

import (
	"context"
	"fmt"

	"github.com/spec-kit/user-service/internal/config"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// SearchService executes validated search specifications against the
// repository, enforcing the configured pagination ceiling. It is a pure
// read and safe for concurrent use.
type SearchService struct {
	users repository.UserRepository
	cfg   config.SearchConfig
}

// NewSearchService constructs the search engine.
func NewSearchService(users repository.UserRepository, cfg config.SearchConfig) *SearchService {
	return &SearchService{users: users, cfg: cfg}
}

// FindAll resolves the effective limit, counts total matches and fetches the
// requested page. The limit check runs before any repository access.
func (s *SearchService) FindAll(ctx context.Context, search *domain.UserSearch) (*domain.SearchResult, error) {
	limit := s.cfg.DefaultLimit
	if search.Limit != nil {
		limit = *search.Limit
	}
	if limit > s.cfg.MaxLimit {
		return nil, apperrors.NewPreconditionFailed(fmt.Sprintf(
			"The 'limit' field is greater than the configured maximum limit [%d]", s.cfg.MaxLimit))
	}

	filter := repository.UserFilter{
		Name:           search.Name,
		Email:          search.Email,
		Status:         search.Status,
		CreatedAtStart: search.CreatedAtStart,
		CreatedAtEnd:   search.CreatedAtEnd,
	}

	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := search.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	sort := repository.SortSpec{Field: search.Sort, Direction: search.SortDirection}
	users, err := s.users.Find(ctx, filter, sort, offset, limit)
	if err != nil {
		return nil, err
	}

	return &domain.SearchResult{Users: users, Total: total, MaxLimit: s.cfg.MaxLimit}, nil
}
