// Package api exposes the catalog over HTTP. Request arguments ride in
// the query string and every response is a {status, response} envelope,
// the wire format the service's existing clients expect.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/marvelcat/charstore/internal/auth"
	"github.com/marvelcat/charstore/internal/catalog"
)

// Handler carries the collaborators the HTTP layer dispatches into.
type Handler struct {
	Catalog  *catalog.Service
	Accounts *auth.Registry
	Log      zerolog.Logger
}

func respond(c *gin.Context, status int, payload any) {
	c.JSON(status, gin.H{"status": status, "response": payload})
}

// SignUp handles POST /signup.
func (h *Handler) SignUp(c *gin.Context) {
	email := c.Query("email")
	password := c.Query("password")
	if email == "" {
		respond(c, http.StatusBadRequest, "Missing argument email")
		return
	}
	if password == "" {
		respond(c, http.StatusBadRequest, "Missing argument password")
		return
	}

	err := h.Accounts.SignUp(email, password)
	switch {
	case err == nil:
		respond(c, http.StatusOK, "Successfully signed up")
	case errors.Is(err, auth.ErrEmailTaken):
		respond(c, http.StatusConflict, fmt.Sprintf("%s already exists.", email))
	default:
		h.serverError(c, err)
	}
}

// LogIn handles GET /login. A successful login carries the fresh token
// alongside the envelope; the server keeps no copy of it.
func (h *Handler) LogIn(c *gin.Context) {
	email := c.Query("email")
	password := c.Query("password")
	if email == "" {
		respond(c, http.StatusBadRequest, "Missing argument email")
		return
	}
	if password == "" {
		respond(c, http.StatusBadRequest, "Missing argument password")
		return
	}

	token, err := h.Accounts.LogIn(email, password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"status":   http.StatusOK,
			"response": "Successfully logged in",
			"token":    token,
		})
	case errors.Is(err, auth.ErrUnknownEmail):
		respond(c, http.StatusUnauthorized, "Invalid email")
	case errors.Is(err, auth.ErrInvalidPassword):
		respond(c, http.StatusPaymentRequired, "Invalid password.")
	default:
		h.serverError(c, err)
	}
}

// ListCharacters handles GET /characters.
func (h *Handler) ListCharacters(c *gin.Context) {
	ids := c.QueryArray("characterId")
	names := c.QueryArray("characterName")

	records, err := h.Catalog.List(ids, names)
	switch {
	case err == nil:
		respond(c, http.StatusOK, records)
	case errors.Is(err, catalog.ErrNotFound):
		respond(c, http.StatusNotFound, fmt.Sprintf("%s is not in our database", missingOf(err)))
	default:
		h.serverError(c, err)
	}
}

// CreateCharacter handles POST /characters. All five optional fields
// present selects the manual path, none selects the enrichment path, and
// any partial mix is ambiguous and rejected.
func (h *Handler) CreateCharacter(c *gin.Context) {
	id := c.Query("characterId")
	if id == "" {
		respond(c, http.StatusBadRequest, "Missing argument characterId")
		return
	}

	name := c.Query("characterName")
	eventsArg := c.Query("number_events")
	seriesArg := c.Query("number_series")
	comicsArg := c.Query("number_comics")
	priceArg := c.Query("highest_price")

	supplied := 0
	for _, arg := range []string{name, eventsArg, seriesArg, comicsArg, priceArg} {
		if arg != "" {
			supplied++
		}
	}

	var manual *catalog.ManualFields
	switch supplied {
	case 5:
		fields, err := parseManualFields(name, eventsArg, seriesArg, comicsArg, priceArg)
		if err != nil {
			respond(c, http.StatusBadRequest, err.Error())
			return
		}
		manual = fields
	case 0:
		// enrichment path
	default:
		respond(c, http.StatusPaymentRequired, "Insufficient Information Input")
		return
	}

	records, err := h.Catalog.Create(c.Request.Context(), id, manual)
	switch {
	case err == nil:
		respond(c, http.StatusOK, records)
	case errors.Is(err, catalog.ErrConflict):
		respond(c, http.StatusConflict, fmt.Sprintf("'%s' already exists.", id))
	case errors.Is(err, catalog.ErrNotFound):
		respond(c, http.StatusNotFound, "Error: Character ID not found")
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		h.Log.Error().Err(err).Str("character_id", id).Msg("enrichment upstream failed")
		respond(c, http.StatusUnauthorized, "Connection not established")
	default:
		h.serverError(c, err)
	}
}

// DeleteCharacters handles DELETE /characters.
func (h *Handler) DeleteCharacters(c *gin.Context) {
	ids := c.QueryArray("characterId")
	names := c.QueryArray("characterName")

	records, err := h.Catalog.Delete(ids, names)
	switch {
	case err == nil:
		respond(c, http.StatusOK, records)
	case errors.Is(err, catalog.ErrInvalidInput):
		respond(c, http.StatusNotFound, "Missing argument characterId or characterName.")
	case errors.Is(err, catalog.ErrNotFound):
		respond(c, http.StatusMethodNotAllowed, err.Error())
	default:
		h.serverError(c, err)
	}
}

// ConvertCharacterPrice handles PUT /characters.
func (h *Handler) ConvertCharacterPrice(c *gin.Context) {
	from := c.Query("original_currency")
	to := c.Query("wanted_currency")
	if from == "" {
		respond(c, http.StatusBadRequest, "Missing argument original_currency")
		return
	}
	if to == "" {
		respond(c, http.StatusBadRequest, "Missing argument wanted_currency")
		return
	}

	id := c.Query("characterId")
	name := c.Query("characterName")

	records, err := h.Catalog.ConvertPrice(c.Request.Context(), id, name, from, to)
	switch {
	case err == nil:
		respond(c, http.StatusOK, records)
	case errors.Is(err, catalog.ErrInvalidInput):
		respond(c, http.StatusNotFound, "Missing argument characterId or characterName.")
	case errors.Is(err, catalog.ErrNotFound):
		respond(c, http.StatusMethodNotAllowed, err.Error())
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		h.Log.Error().Err(err).Msg("exchange upstream failed")
		respond(c, http.StatusUnauthorized, "Connection not established")
	default:
		h.serverError(c, err)
	}
}

func (h *Handler) serverError(c *gin.Context, err error) {
	h.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	respond(c, http.StatusInternalServerError, err.Error())
}

func parseManualFields(name, events, series, comics, price string) (*catalog.ManualFields, error) {
	fields := catalog.ManualFields{Name: name}
	var err error
	if fields.Events, err = strconv.Atoi(events); err != nil {
		return nil, fmt.Errorf("number_events must be an integer")
	}
	if fields.Series, err = strconv.Atoi(series); err != nil {
		return nil, fmt.Errorf("number_series must be an integer")
	}
	if fields.Comics, err = strconv.Atoi(comics); err != nil {
		return nil, fmt.Errorf("number_comics must be an integer")
	}
	if fields.MaxComicPrice, err = strconv.ParseFloat(price, 64); err != nil {
		return nil, fmt.Errorf("highest_price must be a number")
	}
	return &fields, nil
}

// missingOf pulls the absent subset out of a catalog NotFoundError for
// the list endpoint's message.
func missingOf(err error) string {
	var nf *catalog.NotFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("%v", nf.Missing)
	}
	return err.Error()
}
