package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Shreyakannapla/stocks-dashboard/internal/auth"
	"github.com/Shreyakannapla/stocks-dashboard/internal/middleware"
	"github.com/Shreyakannapla/stocks-dashboard/internal/models"
	"github.com/Shreyakannapla/stocks-dashboard/internal/session"
)

// SignupRequest defines the expected JSON body for signup
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the expected JSON body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse defines the JSON response for successful auth
type AuthResponse struct {
	Token    string      `json:"token"`
	User     models.User `json:"user"`
	IssuedAt time.Time   `json:"issued_at"`
}

// Signup handles account creation. A signup always creates a fresh
// account for the email, replacing any prior one.
func (h *Handler) Signup(c *fiber.Ctx) error {
	req := new(SignupRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}

	s, err := h.sessions.SignUp(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrMissingFields) {
			return badRequest(c, "Name, email and password cannot be empty")
		}
		log.Printf("Error signing up %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create account"})
	}

	return h.authResponse(c, fiber.StatusCreated, s)
}

// Login handles authentication. This is a simulator: any password opens
// the account registered for the email, and a first login creates one.
func (h *Handler) Login(c *fiber.Ctx) error {
	req := new(LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Cannot parse request body")
	}

	s, err := h.sessions.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrMissingFields) {
			return badRequest(c, "Enter both email & password")
		}
		log.Printf("Error logging in %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to log in"})
	}

	return h.authResponse(c, fiber.StatusOK, s)
}

// Logout returns the session to the anonymous state. The account stays in
// the registry for the next login.
func (h *Handler) Logout(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session: please log in"})
	}

	if err := h.sessions.Logout(s.ID); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session: please log in"})
	}
	return c.JSON(fiber.Map{"message": "Logged out!"})
}

// Me returns the authenticated user's identity.
func (h *Handler) Me(c *fiber.Ctx) error {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing session: please log in"})
	}
	return c.JSON(s.User())
}

func (h *Handler) authResponse(c *fiber.Ctx, status int, s *session.Session) error {
	user := s.User()
	token, err := auth.GenerateToken(s.ID, user.Email, user.Name)
	if err != nil {
		log.Printf("Error generating token for %s: %v", user.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(status).JSON(AuthResponse{
		Token:    token,
		User:     user,
		IssuedAt: time.Now(),
	})
}
