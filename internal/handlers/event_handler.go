package handlers

import (
	"net/http"

	"eventhub_backend/internal/middleware"
	"eventhub_backend/internal/models"
	"eventhub_backend/internal/repositories"
	"eventhub_backend/internal/services"
	"eventhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	*BaseHandler
	eventService services.EventService
}

func NewEventHandler(base *BaseHandler, eventService services.EventService) *EventHandler {
	return &EventHandler{
		BaseHandler:  base,
		eventService: eventService,
	}
}

func (h *EventHandler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/events")
	events.Use(middleware.AuthMiddleware())
	{
		events.GET("", h.ListEvents)
		events.GET("/my-registrations", h.MyRegistrations)
		events.GET("/:eventId", h.GetEvent)
		events.POST("", h.CreateEvent)
		events.PUT("/:eventId", h.UpdateEvent)
		events.PATCH("/:eventId", h.UpdateEvent)
		events.DELETE("/:eventId", h.DeleteEvent)
		events.POST("/:eventId/register", h.Register)
		events.POST("/:eventId/unregister", h.Unregister)
	}
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	viewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	criteria := repositories.EventCriteria{
		Category: models.EventCategory(c.Query("category")),
		Status:   models.EventStatus(c.Query("status")),
		Location: c.Query("location"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}
	if c.Query("my_events") == "true" {
		criteria.CreatedBy = viewerID
	}

	response, err := h.eventService.ListEvents(viewerID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	event, err := h.eventService.GetEvent(userID, c.Param("eventId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.eventService.UpdateEvent(userID, c.Param("eventId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(userID, c.Param("eventId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Register(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	registration, err := h.eventService.Register(userID, c.Param("eventId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, registration)
}

func (h *EventHandler) Unregister(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.eventService.Unregister(userID, c.Param("eventId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Registration cancelled"})
}

func (h *EventHandler) MyRegistrations(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	registrations, err := h.eventService.MyRegistrations(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registrations)
}
