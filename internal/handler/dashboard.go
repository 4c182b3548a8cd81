package handler

import (
	"time"

	"clarifi/internal/aggregate"
	"clarifi/internal/service"
	"clarifi/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// 列表组件允许的时间窗口（天）
var allowedWindows = map[string]int{"7": 7, "30": 30, "90": 90}

const defaultWindow = "30"

// DashboardHandler 仪表盘三个视图，全部基于当前用户同一份缓存的交易列表计算
type DashboardHandler struct {
	Svc      *service.TransactionService
	Location *time.Location
	Now      func() time.Time
	Log      zerolog.Logger
}

func NewDashboardHandler(svc *service.TransactionService, loc *time.Location, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Location: loc, Now: time.Now, Log: log}
}

type recentResp struct {
	Days   int                     `json:"days"`
	Count  int                     `json:"count"`
	Groups aggregate.RecencyGroups `json:"groups"`
}

type spendingResp struct {
	aggregate.SeriesResult
	Theme  aggregate.Theme   `json:"theme"`
	Colors map[string]string `json:"colors"`
}

// now 返回请求时区下的当前时间
func (h *DashboardHandler) now(c *gin.Context) (time.Time, error) {
	loc, err := loadLocation(c.Query("tz"), h.Location)
	if err != nil {
		return time.Time{}, err
	}
	return h.Now().In(loc), nil
}

// Transactions 最近 N 天的交易，按 today / yesterday / thisWeek / thisMonth / older 分组
func (h *DashboardHandler) Transactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	days, ok := allowedWindows[c.DefaultQuery("days", defaultWindow)]
	if !ok {
		_ = c.Error(util.NewValidationError("days", "must be one of 7, 30, 90"))
		return
	}
	now, err := h.now(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	txs, err := h.Svc.Cached(c.Request.Context(), user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	groups := aggregate.RecentView(txs, now, days)
	util.Success(c, recentResp{Days: days, Count: groups.Count(), Groups: groups})
}

// Overview 最近 30 天收支与前 30 天对比
func (h *DashboardHandler) Overview(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	now, err := h.now(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	txs, err := h.Svc.Cached(c.Request.Context(), user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	util.Success(c, aggregate.Overview(txs, now))
}

// Spending 按分类组统计的 6 个月 / 6 年支出，附带配色
func (h *DashboardHandler) Spending(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	mode, err := aggregate.ParseMode(c.Query("mode"))
	if err != nil {
		_ = c.Error(util.NewValidationError("mode", "must be month or year"))
		return
	}
	theme, err := aggregate.ParseTheme(c.Query("theme"))
	if err != nil {
		_ = c.Error(util.NewValidationError("theme", "must be light or dark"))
		return
	}
	now, err := h.now(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	txs, err := h.Svc.Cached(c.Request.Context(), user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	series := aggregate.SpendingSeries(txs, now, mode)
	if len(series.ExcludedCategories) > 0 {
		h.Log.Debug().
			Str("user_id", user.UserID).
			Strs("categories", series.ExcludedCategories).
			Msg("expense categories outside the taxonomy left out of spending series")
	}
	util.Success(c, spendingResp{
		SeriesResult: series,
		Theme:        theme,
		Colors:       aggregate.GroupColors(series.CategoryGroups, theme),
	})
}
