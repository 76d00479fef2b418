package httpapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-go/library/features/command/loginuser"
	"github.com/AntonStoeckl/library-circulation-go/library/features/command/registeruser"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/profile"
	"github.com/AntonStoeckl/library-circulation-go/library/features/query/users"
	"github.com/AntonStoeckl/library-circulation-go/library/shared/shell"
)

type registerRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	UniversityID string `json:"universityId"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerUser always creates a regular user, whatever role the body might claim.
func (a *api) registerUser(c *fiber.Ctx) error {
	var req registerRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	command := registeruser.BuildCommand(uuid.New(), req.Name, req.Email, req.Password, req.UniversityID, a.now())

	user, err := a.handlers.RegisterUser.Handle(c.UserContext(), command)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toUserDTO(user))
}

func (a *api) loginUser(c *fiber.Ctx) error {
	var req loginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	result, err := a.handlers.LoginUser.Handle(c.UserContext(), loginuser.BuildCommand(req.Email, req.Password, a.now()))
	if err != nil {
		return err
	}

	return c.JSON(loginDTO{
		User:      toUserDTO(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	})
}

func (a *api) profile(c *fiber.Ctx, actor shell.Actor) error {
	user, err := a.handlers.Profile.Handle(c.UserContext(), profile.BuildQuery(actor.UserID))
	if err != nil {
		return err
	}

	return c.JSON(toUserDTO(user))
}

func (a *api) listUsers(c *fiber.Ctx, _ shell.Actor) error {
	list, err := a.handlers.Users.Handle(c.UserContext(), users.BuildQuery())
	if err != nil {
		return err
	}

	dtos := make([]userDTO, 0, len(list))
	for _, user := range list {
		dtos = append(dtos, toUserDTO(user))
	}

	return c.JSON(fiber.Map{"users": dtos})
}
