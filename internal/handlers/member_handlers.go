package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rhanierex/Gym-Management/internal/membership"
	"github.com/rhanierex/Gym-Management/internal/services"
)

type MemberHandler struct {
	registry *membership.Registry
	cache    *services.RedisCache
}

func NewMemberHandler(registry *membership.Registry, cache *services.RedisCache) *MemberHandler {
	return &MemberHandler{registry: registry, cache: cache}
}

// invalidate drops cached aggregates after a write
func (h *MemberHandler) invalidate(c echo.Context) {
	if h.cache == nil {
		return
	}
	ctx := c.Request().Context()
	h.cache.Delete(ctx, "dashboard:stats")
	h.cache.Delete(ctx, "reports:revenue")
}

// NewMemberID returns a fresh unused identifier so the registration form
// can show it before the member is saved. The id is only reserved once the
// registration commits.
func (h *MemberHandler) NewMemberID(c echo.Context) error {
	id, err := h.registry.GenerateMemberID(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"member_id": id})
}

// RegisterMember creates a new member with a generated MG identifier
func (h *MemberHandler) RegisterMember(c echo.Context) error {
	var in membership.MemberInput
	if err := c.Bind(&in); err != nil {
		return &membership.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	member, err := h.registry.Register(c.Request().Context(), in)
	if err != nil {
		return err
	}

	h.invalidate(c)
	return c.JSON(http.StatusCreated, member)
}

// GetMember returns a single member by their MG identifier
func (h *MemberHandler) GetMember(c echo.Context) error {
	member, err := h.registry.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, member)
}

// EditMember replaces a member's profile and plan. The registration date
// is kept, so a plan change recomputes the expiry from the current period
// start.
func (h *MemberHandler) EditMember(c echo.Context) error {
	var in membership.MemberInput
	if err := c.Bind(&in); err != nil {
		return &membership.ValidationError{Field: "body", Reason: "malformed request body"}
	}

	member, err := h.registry.Edit(c.Request().Context(), c.Param("id"), in)
	if err != nil {
		return err
	}

	h.invalidate(c)
	return c.JSON(http.StatusOK, member)
}

// RenewMember extends a membership by one plan period starting from the
// previous expiry date
func (h *MemberHandler) RenewMember(c echo.Context) error {
	member, err := h.registry.Renew(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	h.invalidate(c)
	return c.JSON(http.StatusOK, member)
}

// DeleteMember removes a member and all of their attendance records
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	if err := h.registry.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	h.invalidate(c)
	return c.JSON(http.StatusOK, ok("member deleted"))
}

// ListMembers lists members, optionally filtered by ?q= (name substring)
// or ?status= (active|expired|expiring)
func (h *MemberHandler) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()
	now := time.Now()

	if q := c.QueryParam("q"); q != "" {
		found, ferr := h.registry.FindByName(ctx, q)
		if ferr != nil {
			return ferr
		}
		return c.JSON(http.StatusOK, listPayload{Count: len(found), Items: found})
	}

	switch status := c.QueryParam("status"); status {
	case "", "all":
		all, aerr := h.registry.All(ctx)
		if aerr != nil {
			return aerr
		}
		return c.JSON(http.StatusOK, listPayload{Count: len(all), Items: all})
	case "active":
		active, aerr := h.registry.ListActive(ctx, now)
		if aerr != nil {
			return aerr
		}
		return c.JSON(http.StatusOK, listPayload{Count: len(active), Items: active})
	case "expired":
		expired, eerr := h.registry.ListExpired(ctx, now)
		if eerr != nil {
			return eerr
		}
		return c.JSON(http.StatusOK, listPayload{Count: len(expired), Items: expired})
	case "expiring":
		expiring, eerr := h.registry.ListExpiringWithin(ctx, now, membership.DefaultAlertWindow)
		if eerr != nil {
			return eerr
		}
		return c.JSON(http.StatusOK, listPayload{Count: len(expiring), Items: expiring})
	default:
		return &membership.ValidationError{Field: "status", Reason: "must be one of all, active, expired, expiring"}
	}
}

// MemberQRCode streams the member's check-in QR code as a PNG
func (h *MemberHandler) MemberQRCode(c echo.Context) error {
	member, err := h.registry.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	png, err := services.MemberQRCode(member.MemberID, 256)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", png)
}
