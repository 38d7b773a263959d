package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "prize-draw-engine/internal/common/errors"
	"prize-draw-engine/internal/common/middleware"
	"prize-draw-engine/internal/common/validation"
	"prize-draw-engine/internal/features/draw/models"
	drawservice "prize-draw-engine/internal/features/draw/service"
)

// EventPublisher уведомляет внешний диспетчер уведомлений. Ошибка публикации
// не откатывает уже зафиксированное изменение и только логируется.
type EventPublisher interface {
	WinnerChanged(ctx context.Context, t *models.Ticket) error
	TicketsIssued(ctx context.Context, key models.DrawKey, tickets []models.Ticket) error
}

type DrawHandler struct {
	ledger   drawservice.LedgerService
	selector drawservice.SelectorService
	query    drawservice.QueryService
	events   EventPublisher
	log      zerolog.Logger
}

func NewDrawHandler(
	ledger drawservice.LedgerService,
	selector drawservice.SelectorService,
	query drawservice.QueryService,
	events EventPublisher,
	log zerolog.Logger,
) *DrawHandler {
	return &DrawHandler{
		ledger:   ledger,
		selector: selector,
		query:    query,
		events:   events,
		log:      log,
	}
}

func (h *DrawHandler) RegisterRoutes(router *gin.RouterGroup) {
	wrap := middleware.HandleErrorWrapper(h.log)

	draws := router.Group("/draws")
	{
		draws.GET("", wrap(h.listDraws))
		draws.GET("/:productID/:campaignID", wrap(h.getDraw))
		draws.GET("/:productID/:campaignID/pool", wrap(h.listPool))
		draws.GET("/:productID/:campaignID/winner-history", wrap(h.winnerHistory))
		draws.POST("/:productID/:campaignID/tickets", wrap(h.issueTickets))
	}

	tickets := router.Group("/tickets")
	{
		tickets.POST("/:ticketID/winner", wrap(h.markWinner))
	}
}

// @Summary Список розыгрышей
// @Description Возвращает розыгрыши со статусом, вычисленным на момент запроса
// @Tags draws
// @Produce json
// @Param phase query string false "Фаза: accepting, ready или past"
// @Success 200 {array} models.DrawStatus
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /draws [get]
func (h *DrawHandler) listDraws(c *gin.Context) {
	draws, err := h.query.ListDraws(c.Request.Context(), c.Query("phase"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, draws)
}

// @Summary Статус розыгрыша
// @Tags draws
// @Produce json
// @Param productID path int true "ID продукта"
// @Param campaignID path int true "ID кампании"
// @Success 200 {object} models.DrawStatus
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /draws/{productID}/{campaignID} [get]
func (h *DrawHandler) getDraw(c *gin.Context) {
	key, ok := drawKey(c)
	if !ok {
		return
	}
	status, err := h.query.GetDraw(c.Request.Context(), key)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// @Summary Пул билетов
// @Description Все билеты розыгрыша в порядке выдачи, включая победителя, без пагинации
// @Tags draws
// @Produce json
// @Param productID path int true "ID продукта"
// @Param campaignID path int true "ID кампании"
// @Success 200 {array} models.PoolEntry
// @Failure 404 {object} middleware.ErrorResponse
// @Router /draws/{productID}/{campaignID}/pool [get]
func (h *DrawHandler) listPool(c *gin.Context) {
	key, ok := drawKey(c)
	if !ok {
		return
	}
	pool, err := h.query.ListPool(c.Request.Context(), key)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, pool)
}

// @Summary История выбора победителей
// @Tags draws
// @Produce json
// @Param productID path int true "ID продукта"
// @Param campaignID path int true "ID кампании"
// @Success 200 {array} models.WinnerEvent
// @Failure 404 {object} middleware.ErrorResponse
// @Router /draws/{productID}/{campaignID}/winner-history [get]
func (h *DrawHandler) winnerHistory(c *gin.Context) {
	key, ok := drawKey(c)
	if !ok {
		return
	}
	events, err := h.query.ListWinnerHistory(c.Request.Context(), key)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// @Summary Выдать билеты
// @Description Вызывается сервисом заказов после оплаты. Лимит tickets_required мягкий: выдача сверх него не отклоняется
// @Tags tickets
// @Accept json
// @Produce json
// @Param productID path int true "ID продукта"
// @Param campaignID path int true "ID кампании"
// @Param input body models.TicketIssue true "Покупатель, заказ и количество"
// @Success 201 {array} models.Ticket
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /draws/{productID}/{campaignID}/tickets [post]
func (h *DrawHandler) issueTickets(c *gin.Context) {
	key, ok := drawKey(c)
	if !ok {
		return
	}

	var input models.TicketIssue
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.NewBadRequestError(err.Error()))
		return
	}

	tickets, err := h.ledger.IssueTickets(c.Request.Context(), key, &input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if h.events != nil {
		if err := h.events.TicketsIssued(c.Request.Context(), key, tickets); err != nil {
			h.log.Warn().Err(err).Str("draw", key.String()).Msg("failed to publish tickets issued event")
		}
	}
	c.JSON(http.StatusCreated, tickets)
}

// @Summary Отметить победителя
// @Description is_winner=true выбирает билет победителем (повтор безопасен), false снимает отметку только с этого билета
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticketID path int true "ID билета"
// @Param input body models.WinnerMark true "Флаг победителя"
// @Success 200 {object} models.Ticket
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /tickets/{ticketID}/winner [post]
func (h *DrawHandler) markWinner(c *gin.Context) {
	ticketID, err := validation.ParseID("ticketID", c.Param("ticketID"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("ticketID", err.Error()))
		return
	}

	var input models.WinnerMark
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(apperrors.NewBadRequestError(err.Error()))
		return
	}

	ticket, changed, err := h.selector.MarkWinner(c.Request.Context(), ticketID, *input.IsWinner)
	if err != nil {
		_ = c.Error(err)
		return
	}

	// Повторная отметка ничего не меняет, значит и уведомлять не о чем
	if changed && h.events != nil {
		if err := h.events.WinnerChanged(c.Request.Context(), ticket); err != nil {
			h.log.Warn().Err(err).Int64("ticket_id", ticket.ID).Msg("failed to publish winner event")
		}
	}
	c.JSON(http.StatusOK, ticket)
}

func drawKey(c *gin.Context) (models.DrawKey, bool) {
	productID, err := validation.ParseID("productID", c.Param("productID"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("productID", err.Error()))
		return models.DrawKey{}, false
	}
	campaignID, err := validation.ParseID("campaignID", c.Param("campaignID"))
	if err != nil {
		_ = c.Error(apperrors.NewValidationError("campaignID", err.Error()))
		return models.DrawKey{}, false
	}
	return models.DrawKey{ProductID: productID, CampaignID: campaignID}, true
}
