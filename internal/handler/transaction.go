package handler

import (
	"time"

	"clarifi/internal/models"
	"clarifi/internal/service"
	"clarifi/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler 负责交易记录的增删改查
// 不带时区的日期按 ?tz= 或 Location 解释
type TransactionHandler struct {
	Svc      *service.TransactionService
	Location *time.Location
	Now      func() time.Time
}

func NewTransactionHandler(svc *service.TransactionService, loc *time.Location) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Location: loc, Now: time.Now}
}

// ---------- 请求结构 ----------

type createTransactionReq struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
}

// 部分更新：没传的字段保持不变
type updateTransactionReq struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Category    *string          `json:"category"`
	Type        *string          `json:"type"`
	Date        *string          `json:"date"`
}

func (r createTransactionReq) toInput(loc *time.Location) (service.CreateInput, error) {
	date, err := util.ParseDate(r.Date, loc)
	if err != nil {
		return service.CreateInput{}, err
	}
	return service.CreateInput{
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Type:        models.TransactionType(r.Type),
		Date:        date,
	}, nil
}

func (r updateTransactionReq) toInput(loc *time.Location) (service.UpdateInput, error) {
	in := service.UpdateInput{
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
	}
	if r.Type != nil {
		t := models.TransactionType(*r.Type)
		in.Type = &t
	}
	if r.Date != nil {
		date, err := util.ParseDate(*r.Date, loc)
		if err != nil {
			return in, err
		}
		in.Date = &date
	}
	return in, nil
}

// ---------- 记一笔 ----------

func (h *TransactionHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req createTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(util.NewValidationError("", "invalid request body"))
		return
	}
	loc, err := loadLocation(c.Query("tz"), h.Location)
	if err != nil {
		_ = c.Error(err)
		return
	}
	in, err := req.toInput(loc)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tx, err := h.Svc.Create(c.Request.Context(), user.UserID, in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	util.Created(c, tx)
}

// ---------- 列表 / 详情 ----------

// List 返回当前用户全部交易，按日期倒序
func (h *TransactionHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txs, err := h.Svc.Cached(c.Request.Context(), user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	util.Success(c, txs)
}

func (h *TransactionHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	tx, err := h.Svc.Get(c.Request.Context(), user.UserID, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	util.Success(c, tx)
}

// ---------- 修改 ----------

func (h *TransactionHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req updateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(util.NewValidationError("", "invalid request body"))
		return
	}
	loc, err := loadLocation(c.Query("tz"), h.Location)
	if err != nil {
		_ = c.Error(err)
		return
	}
	in, err := req.toInput(loc)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tx, err := h.Svc.Update(c.Request.Context(), user.UserID, c.Param("id"), in)
	if err != nil {
		_ = c.Error(err)
		return
	}
	util.Success(c, tx)
}

// ---------- 删除 ----------

func (h *TransactionHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), user.UserID, c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	util.Success(c, gin.H{"message": "transaction deleted"})
}

// DeleteAll 清空当前用户的全部交易（演示数据重置用，不可恢复）
func (h *TransactionHandler) DeleteAll(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	n, err := h.Svc.DeleteAll(c.Request.Context(), user.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	util.Success(c, gin.H{"deleted": n})
}

// Seed 写入 5 条示例数据
func (h *TransactionHandler) Seed(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	txs, err := h.Svc.Seed(c.Request.Context(), user.UserID, h.Now())
	if err != nil {
		_ = c.Error(err)
		return
	}
	util.Created(c, txs)
}
