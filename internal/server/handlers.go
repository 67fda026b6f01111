package server

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mesh-intelligence/elestrals/pkg/types"
)

func (s *Server) greeting(c *fiber.Ctx) error {
	return c.SendString(Greeting)
}

func (s *Server) echoUser(c *fiber.Ctx) error {
	return c.SendString(c.Params("id"))
}

// echoForm returns the request body unchanged, with the request content type.
func (s *Server) echoForm(c *fiber.Ctx) error {
	if ct := c.Get(fiber.HeaderContentType); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	return c.Send(c.Body())
}

// cardFile serves <data>/cards/<id>.json byte for byte.
func (s *Server) cardFile(c *fiber.Ctx) error {
	id, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		return invalid(fmt.Errorf("card id: %w", err))
	}
	if id == "" || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return invalid(fmt.Errorf("%w: %q", types.ErrInvalidID, id))
	}

	data, err := os.ReadFile(filepath.Join(s.cfg.DataDir, "cards", id+".json"))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("card %s: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"version": s.cfg.Version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) listCards(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}
	cards, err := s.catalog.ListCards(c.UserContext(), types.CardFilter{
		SetID:    c.Query("set_id"),
		CardType: c.Query("card_type"),
		Rarity:   c.Query("rarity"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return err
	}
	return c.JSON(cards)
}

func (s *Server) getCard(c *fiber.Ctx) error {
	card, err := s.catalog.GetCard(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(card)
}

func (s *Server) cardVariants(c *fiber.Ctx) error {
	ctx := c.UserContext()
	id := c.Params("id")
	if _, err := s.catalog.GetCard(ctx, id); err != nil {
		return err
	}
	variants, err := s.catalog.CardVariants(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(variants)
}

func (s *Server) listSets(c *fiber.Ctx) error {
	sets, err := s.catalog.ListSets(c.UserContext(), c.Query("series_id"))
	if err != nil {
		return err
	}
	return c.JSON(sets)
}

func (s *Server) getSet(c *fiber.Ctx) error {
	set, err := s.catalog.GetSet(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(set)
}

func (s *Server) listSeries(c *fiber.Ctx) error {
	series, err := s.catalog.ListSeries(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(series)
}

func (s *Server) getSeries(c *fiber.Ctx) error {
	series, err := s.catalog.GetSeries(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(series)
}

func (s *Server) listLookups(c *fiber.Ctx) error {
	kind := types.LookupKind(c.Params("kind"))
	if !kind.Valid() {
		return fmt.Errorf("%w: %s", types.ErrUnknownLookup, kind)
	}
	rows, err := s.catalog.ListLookups(c.UserContext(), kind)
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

func (s *Server) search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return invalid(errors.New("query parameter q is required"))
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	if limit == 0 {
		limit = defaultSearchLimit
	}
	if limit < 0 || limit > types.MaxCardLimit {
		return fmt.Errorf("%w: limit %d", types.ErrInvalidFilter, limit)
	}

	names, err := s.catalog.CardNames(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(searchNames(names, q, limit))
}

func (s *Server) stats(c *fiber.Ctx) error {
	counts, err := s.catalog.Counts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(counts)
}

// queryInt parses an optional integer query parameter; absent means zero.
func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(fmt.Errorf("%s must be an integer", key))
	}
	return n, nil
}
