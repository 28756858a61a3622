package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmountScale 金额保留的小数位数
const AmountScale = 2

// BudgetItem 预算条目
type BudgetItem struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	UserID      string          `json:"user_id" gorm:"size:36;index;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	User        User            `json:"-" gorm:"foreignKey:UserID"`
}

// TableName 设置表名
func (BudgetItem) TableName() string {
	return "budget_items"
}

// RoundAmount 按银行家舍入法保留两位小数
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(AmountScale)
}

// BudgetItemView 对外返回（及缓存）的条目视图
type BudgetItemView struct {
	ID          string  `json:"id"`
	User        string  `json:"user"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// NewBudgetItemView 由条目与所属用户名构建视图
func NewBudgetItemView(item *BudgetItem, username string) BudgetItemView {
	return BudgetItemView{
		ID:          item.ID,
		User:        username,
		Description: item.Description,
		Amount:      RoundAmount(item.Amount).InexactFloat64(),
	}
}

// BudgetSummary 条目汇总：正数金额计入收入，负数金额计入支出
type BudgetSummary struct {
	Count        int     `json:"count" example:"3"`
	Total        float64 `json:"total" example:"1480.25"`
	TotalIncome  float64 `json:"total_income" example:"1500.50"`
	TotalExpense float64 `json:"total_expense" example:"20.25"`
}

// Summarize 汇总条目金额
func Summarize(items []BudgetItem) BudgetSummary {
	total, income, expense := decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
		if item.Amount.IsNegative() {
			expense = expense.Sub(item.Amount)
		} else {
			income = income.Add(item.Amount)
		}
	}
	return BudgetSummary{
		Count:        len(items),
		Total:        RoundAmount(total).InexactFloat64(),
		TotalIncome:  RoundAmount(income).InexactFloat64(),
		TotalExpense: RoundAmount(expense).InexactFloat64(),
	}
}
