package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"vertex-crm/models"
	"vertex-crm/monitoring"
	"vertex-crm/utils"
)

// The full client list is cached under clients:all:<generation>. Mutations
// bump the generation, so a list read that raced a write can only land on a
// key nobody reads any more.
const (
	listCachePrefix   = "clients:all:"
	listGenerationKey = "clients:generation"
)

const listCacheTTL = 5 * time.Minute

func clientCacheKey(id string) string {
	return "client:" + id
}

// ClientHandler serves /api/clients. cache, kafka and search are optional
// and may be nil.
type ClientHandler struct {
	repo   models.Repository
	cache  utils.RedisClient
	kafka  utils.KafkaProducer
	search utils.ElasticsearchClient
	logger *log.Logger
}

func NewClientHandler(repo models.Repository, cache utils.RedisClient, kafka utils.KafkaProducer, search utils.ElasticsearchClient, logger *log.Logger) *ClientHandler {
	return &ClientHandler{
		repo:   repo,
		cache:  cache,
		kafka:  kafka,
		search: search,
		logger: logger,
	}
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	ctx := c.Request.Context()

	cacheKey, cacheable := h.listCacheKey(ctx)
	if cacheable {
		cached, err := h.cache.GetFromCache(ctx, cacheKey)
		switch {
		case err == nil:
			var clients []models.Client
			if err := json.Unmarshal([]byte(cached), &clients); err == nil {
				monitoring.CacheLookups.WithLabelValues("hit").Inc()
				c.JSON(http.StatusOK, clients)
				return
			}
			h.logger.Printf("Discarding unreadable client list cache entry")
		case errors.Is(err, redis.Nil):
		default:
			h.logger.Printf("Client list cache read failed: %v", err)
		}
		monitoring.CacheLookups.WithLabelValues("miss").Inc()
	}

	monitoring.DatabaseQueries.WithLabelValues("list").Inc()
	clients, err := h.repo.ListClients()
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}

	if cacheable {
		if data, err := json.Marshal(clients); err == nil {
			if err := h.cache.SetToCache(ctx, cacheKey, string(data), listCacheTTL); err != nil {
				h.logger.Printf("Failed to cache client list: %v", err)
			}
		}
	}

	c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req models.ClientFields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fields, err := req.Normalize()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{ClientFields: fields}
	monitoring.DatabaseQueries.WithLabelValues("create").Inc()
	if err := h.repo.CreateClient(client); err != nil {
		h.fail(c, http.StatusInternalServerError, err)
		return
	}

	h.invalidate(c.Request.Context(), client.ID)
	h.publish(models.EventClientCreated, *client)

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	id := c.Param("id")

	// The kafka consumer keeps client:<id> filled for recently changed records.
	if h.cache != nil {
		if cached, err := h.cache.GetFromCache(c.Request.Context(), clientCacheKey(id)); err == nil {
			var client models.Client
			if err := json.Unmarshal([]byte(cached), &client); err == nil && client.ID == id {
				monitoring.CacheLookups.WithLabelValues("hit").Inc()
				c.JSON(http.StatusOK, client)
				return
			}
		}
		monitoring.CacheLookups.WithLabelValues("miss").Inc()
	}

	monitoring.DatabaseQueries.WithLabelValues("get").Inc()
	client, err := h.repo.GetClientByID(id)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, client)
}

// UpdateClient replaces every field of the record. An identifier in the
// body is ignored in favour of the one in the path. Enum values the stored
// record already holds are accepted unchanged.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id := c.Param("id")

	var req models.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	monitoring.DatabaseQueries.WithLabelValues("get").Inc()
	existing, err := h.repo.GetClientByID(id)
	if err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	// Records written before an option was retired keep their value.
	fields, err := req.ClientFields.NormalizeAgainst(existing.ClientFields)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := &models.Client{ID: id, ClientFields: fields}
	monitoring.DatabaseQueries.WithLabelValues("update").Inc()
	if err := h.repo.UpdateClient(client); err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	h.invalidate(c.Request.Context(), id)
	h.publish(models.EventClientUpdated, *client)

	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id := c.Param("id")

	monitoring.DatabaseQueries.WithLabelValues("delete").Inc()
	if err := h.repo.DeleteClient(id); err != nil {
		h.fail(c, statusFor(err), err)
		return
	}

	h.invalidate(c.Request.Context(), id)
	h.publish(models.EventClientDeleted, models.Client{ID: id})

	c.Status(http.StatusNoContent)
}

// SearchClients answers from the elasticsearch projection.
func (h *ClientHandler) SearchClients(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search is not configured"})
		return
	}

	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	clients, err := h.search.SearchClients(c.Request.Context(), term)
	if err != nil {
		h.fail(c, http.StatusBadGateway, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// Health reports database and cache reachability.
func (h *ClientHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	details := gin.H{"database": "available"}
	status := http.StatusOK
	if err := h.repo.Ping(); err != nil {
		details["database"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if h.cache != nil {
		details["redis"] = "available"
		if err := h.cache.Ping(ctx); err != nil {
			details["redis"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "details": details})
}

// Helpers

func statusFor(err error) int {
	if errors.Is(err, models.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// fail records err on the context for the error middleware and writes the
// JSON error body.
func (h *ClientHandler) fail(c *gin.Context, status int, err error) {
	if status == http.StatusNotFound {
		c.JSON(status, gin.H{"error": "client not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// listCacheKey returns the list key for the current generation. It must be
// read before the database so a concurrent mutation moves readers past it.
func (h *ClientHandler) listCacheKey(ctx context.Context) (string, bool) {
	if h.cache == nil {
		return "", false
	}
	generation, err := h.cache.GetFromCache(ctx, listGenerationKey)
	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		generation = "0"
	default:
		h.logger.Printf("Client list generation read failed: %v", err)
		return "", false
	}
	return listCachePrefix + generation, true
}

func (h *ClientHandler) invalidate(ctx context.Context, id string) {
	if h.cache == nil {
		return
	}
	if _, err := h.cache.Incr(ctx, listGenerationKey); err != nil {
		h.logger.Printf("Failed to bump client list generation: %v", err)
	}
	if err := h.cache.DeleteFromCache(ctx, clientCacheKey(id)); err != nil {
		h.logger.Printf("Failed to invalidate client cache: %v", err)
	}
}

func (h *ClientHandler) publish(eventType string, client models.Client) {
	if h.kafka == nil {
		return
	}
	go h.sendKafkaEvent(models.ClientEvent{Event: eventType, Data: client})
}

func (h *ClientHandler) sendKafkaEvent(event models.ClientEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	jsonData, err := json.Marshal(event)
	if err != nil {
		h.logger.Printf("Failed to marshal Kafka event: %v", err)
		return
	}

	if err := h.kafka.SendMessage(ctx, utils.ClientEventsTopic, []byte(event.Data.ID), jsonData); err != nil {
		h.logger.Printf("Failed to send Kafka message: %v", err)
	}
}
