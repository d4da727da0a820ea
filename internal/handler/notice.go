package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skylineapts/strata-portal/internal/repository"
)

const (
	noticeLimit = 3
	updateLimit = 5
)

// NoticeHandler serves the dashboard feeds.  Both feeds are public: the
// noticeboard in the lobby does not require a login either.
type NoticeHandler struct {
	Notices *repository.NoticeRepo
}

func NewNoticeHandler(notices *repository.NoticeRepo) *NoticeHandler {
	return &NoticeHandler{Notices: notices}
}

type noticeView struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	IsImportant bool      `json:"is_important"`
	CreatedAt   time.Time `json:"created_at"`
}

type updateView struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Important returns the newest important notices.
func (h *NoticeHandler) Important(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	notices, err := h.Notices.ImportantNotices(ctx, noticeLimit)
	if err != nil {
		log.Printf("notice: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load notices"})
	}
	views := make([]noticeView, 0, len(notices))
	for _, n := range notices {
		views = append(views, noticeView(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"notices": views})
}

// Updates returns the recent-updates feed.
func (h *NoticeHandler) Updates(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	updates, err := h.Notices.RecentUpdates(ctx, updateLimit)
	if err != nil {
		log.Printf("notice: updates failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load updates"})
	}
	views := make([]updateView, 0, len(updates))
	for _, u := range updates {
		views = append(views, updateView(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"updates": views})
}
