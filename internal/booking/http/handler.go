package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nyggen1981/arena-booking-sub002/internal/auth"
	"github.com/Nyggen1981/arena-booking-sub002/internal/booking"
	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/request"
	"github.com/Nyggen1981/arena-booking-sub002/internal/pkg/response"
	"github.com/Nyggen1981/arena-booking-sub002/internal/user"
)

type Handler struct {
	service     booking.Service
	userService user.Service
}

func NewHandler(service booking.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// checkIsSysAdmin helper checks if the current user is a system admin
func (h *Handler) checkIsSysAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsSystemAdmin
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	// Normal users only ever see their own bookings; admins may filter by
	// any user or see everything.
	currentUserID := auth.GetUserID(c)
	filterUserID := currentUserID
	if h.checkIsSysAdmin(c, currentUserID) {
		filterUserID = req.UserID
	}

	filter := booking.Filter{
		UserID:     filterUserID,
		ResourceID: req.ResourceID,
		PartID:     req.PartID,
		Status:     req.Status,
		StartTime:  req.StartTimeFrom,
		EndTime:    req.StartTimeTo,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := booking.CreateRequest{
		UserID:     userID,
		ResourceID: body.ResourceID,
		PartIDs:    body.PartIDs,
		Title:      body.Title,
		StartTime:  body.StartTime,
		EndTime:    body.EndTime,
	}
	if body.Recurrence != nil {
		req.Recurrence = &booking.Recurrence{
			Type:    booking.RecurrenceType(body.Recurrence.Type),
			EndDate: body.Recurrence.EndDate,
		}
	}

	created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(created))
	for i, b := range created {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusCreated, CreateBookingResponse{Bookings: items, Count: len(items)})
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	if b.UserID != userID && !h.checkIsSysAdmin(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Reschedule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body RescheduleBookingBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := body.Validate(); err != nil {
		response.Error(c, err)
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsSysAdmin(c, userID)

	b, err := h.service.Reschedule(c.Request.Context(), uri.ID, booking.RescheduleRequest{
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	}, userID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Cancel(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsSysAdmin(c, userID)

	b, err := h.service.Cancel(c.Request.Context(), uri.ID, userID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, true)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *Handler) decide(c *gin.Context, approve bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsSysAdmin(c, userID)

	b, err := h.service.Decide(c.Request.Context(), uri.ID, approve, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	isAdmin := h.checkIsSysAdmin(c, userID)

	if err := h.service.Delete(c.Request.Context(), uri.ID, userID, isAdmin); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Purge removes cancelled and rejected bookings that ended in the past.
// Admin only (enforced by route middleware).
func (h *Handler) Purge(c *gin.Context) {
	purged, err := h.service.PurgePastTerminal(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, PurgeResponse{Purged: purged})
}
