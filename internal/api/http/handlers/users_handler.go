package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/api/dto"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/service"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// Pagination response headers on the search endpoint.
const (
	HeaderContentRange = "content-range"
	HeaderAcceptRange  = "accept-range"
)

// UsersHandler exposes the user lifecycle over HTTP. It is a thin renderer:
// all business rules live in the service layer.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.UserCreationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid request body")
	}

	user, err := h.users.Create(c.UserContext(), service.UserCreateInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.ToUserResponse(user))
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	user, err := h.users.FindByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.ToUserResponse(user))
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewInvalidArgument("invalid request body")
	}

	user, err := h.users.Update(c.UserContext(), c.Params("id"), service.UserUpdateInput{
		Name:   req.Name,
		Email:  req.Email,
		Status: req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.ToUserResponse(user))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	if err := h.users.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Search handles GET /users. The total match count and the configured
// maximum page size are echoed back in the range headers.
func (h *UsersHandler) Search(c *fiber.Ctx) error {
	search, err := domain.NewUserSearch(domain.SearchParams{
		Name:           c.Query("name"),
		Email:          c.Query("email"),
		Status:         c.Query("status"),
		CreatedAtStart: c.Query("creation_date_start"),
		CreatedAtEnd:   c.Query("creation_date_end"),
		Sort:           c.Query("sort"),
		SortType:       c.Query("sort_type"),
		Page:           c.Query("page"),
		Limit:          c.Query("limit"),
	})
	if err != nil {
		return err
	}

	result, err := h.users.FindAll(c.UserContext(), search)
	if err != nil {
		return err
	}

	c.Set(HeaderContentRange, strconv.Itoa(result.Total))
	c.Set(HeaderAcceptRange, strconv.Itoa(result.MaxLimit))
	return c.JSON(dto.ToUserResponses(result.Users))
}
