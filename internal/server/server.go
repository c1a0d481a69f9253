// Package server exposes the solver over a small JSON API.
package server

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/jmccarv/quip/internal/cipher"
	"github.com/jmccarv/quip/internal/config"
	"github.com/jmccarv/quip/internal/dictionary"
	"github.com/jmccarv/quip/internal/solver"
)

type Server struct {
	app   *fiber.App
	index *dictionary.Index
	cfg   config.Config
	log   *zap.Logger
}

type solveRequest struct {
	Ciphertext string   `json:"ciphertext"`
	Hints      []string `json:"hints"`
	TimeLimit  int      `json:"time_limit"`
	Frequency  *bool    `json:"frequency"`
	WordBlock  *bool    `json:"word_block"`
}

type solveResponse struct {
	ID        string   `json:"id"`
	Solutions []string `json:"solutions"`
	TimedOut  bool     `json:"timed_out"`
	Message   string   `json:"message,omitempty"`
}

type encryptRequest struct {
	Plaintext string `json:"plaintext"`
}

type encryptResponse struct {
	Ciphertext string `json:"ciphertext"`
	Hint       string `json:"hint"`
}

// New builds the API. cfg supplies the defaults for anything a request
// leaves out and must have been validated.
func New(index *dictionary.Index, cfg config.Config, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{index: index, cfg: cfg, log: log}

	s.app = fiber.New(fiber.Config{
		AppName:               "quipd",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	api := s.app.Group("/api")
	api.Get("/health", s.health)
	api.Post("/solve", s.solve)
	api.Post("/encrypt", s.encrypt)

	return s
}

func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.log.Info("listening", zap.String("addr", addr), zap.Int("words", s.index.Dictionary().Len()))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(err error) error {
	return fiber.NewError(fiber.StatusBadRequest, err.Error())
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "words": s.index.Dictionary().Len()})
}

func (s *Server) solve(c *fiber.Ctx) error {
	var req solveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(err)
	}

	hints, err := cipher.ParseHints(req.Hints...)
	if err != nil {
		return badRequest(err)
	}

	attacks := solver.Attacks{
		Frequency: s.cfg.Attacks.Frequency,
		WordBlock: s.cfg.Attacks.WordBlock,
		TimeLimit: s.cfg.TimeLimit,
	}
	if req.TimeLimit != 0 {
		attacks.TimeLimit = solver.ClampTimeLimit(req.TimeLimit)
	}
	if req.Frequency != nil {
		attacks.Frequency = *req.Frequency
	}
	if req.WordBlock != nil {
		attacks.WordBlock = *req.WordBlock
	}

	sess, err := solver.NewSession(req.Ciphertext, s.index, hints,
		solver.WithLogger(s.log),
		solver.WithAcceptPolicy(s.cfg.Policy()))
	if err != nil {
		return badRequest(err)
	}

	resp := solveResponse{ID: sess.ID()}

	stopped, failed := split(sess.Solve(c.UserContext(), attacks))
	switch {
	case failed == nil:
	case errors.Is(failed, solver.ErrInvalidBudget), errors.Is(failed, solver.ErrNoAttack):
		return badRequest(failed)
	default:
		return failed
	}
	resp.TimedOut = stopped

	resp.Solutions = sess.Results().List()
	if len(resp.Solutions) == 0 {
		resp.Solutions = []string{}
		resp.Message = "no solutions found"
	}
	return c.JSON(resp)
}

// split separates a search that ended early, because time ran out or the
// client went away, from one that failed.
func split(err error) (stopped bool, failed error) {
	for _, e := range multierr.Errors(err) {
		if errors.Is(e, solver.ErrTimeout) || errors.Is(e, context.Canceled) {
			stopped = true
			continue
		}
		failed = multierr.Append(failed, e)
	}
	return stopped, failed
}

func (s *Server) encrypt(c *fiber.Ctx) error {
	var req encryptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(err)
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	text, _, hint, err := cipher.Encrypt(req.Plaintext, rng)
	if err != nil {
		return badRequest(err)
	}
	return c.JSON(encryptResponse{Ciphertext: text, Hint: hint.String()})
}
